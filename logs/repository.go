package logs

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite
)

// Repository stores finished games and the searches that chose their
// moves.
type Repository struct {
	db *sqlx.DB
}

type Game struct {
	ID        int64     `db:"id"`
	Timestamp time.Time `db:"time"`
	Size      int       `db:"size"`
	Black     string    `db:"black"`
	White     string    `db:"white"`
	Result    string    `db:"result"`
	Winner    string    `db:"winner"`
	Moves     int       `db:"moves"`
	Record    string    `db:"record"`
}

type Search struct {
	GameID    int64  `db:"game_id"`
	Ply       int    `db:"ply"`
	Label     string `db:"label"`
	Color     string `db:"color"`
	Move      string `db:"move"`
	Score     int64  `db:"score"`
	Nodes     int64  `db:"nodes"`
	ElapsedMS int64  `db:"elapsed_ms"`
	Fallback  bool   `db:"fallback"`
}

type PlayerStat struct {
	Player string `db:"player"`
	Win    string `db:"win"`
	N      int    `db:"n"`
}

func Open(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	for _, stmt := range []struct {
		name, sql string
	}{
		{"games table", createGameTable},
		{"searches table", createSearchTable},
		{"player_games view", createPlayerView},
	} {
		if _, err := db.Exec(stmt.sql); err != nil {
			db.Close()
			return nil, fmt.Errorf("create %s: %w", stmt.name, err)
		}
	}
	return &Repository{db: db}, nil
}

// InsertGame stores g and its searches in one transaction and returns
// the new game's id.
func (r *Repository) InsertGame(g *Game, searches []Search) (int64, error) {
	txn, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer txn.Rollback()

	res, err := txn.NamedExec(insertGame, g)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for i := range searches {
		searches[i].GameID = id
		if _, err := txn.NamedExec(insertSearch, &searches[i]); err != nil {
			return 0, fmt.Errorf("insert search ply=%d: %w", searches[i].Ply, err)
		}
	}
	if err := txn.Commit(); err != nil {
		return 0, err
	}
	g.ID = id
	return id, nil
}

func (r *Repository) Games() ([]Game, error) {
	var out []Game
	if err := r.db.Select(&out, selectGames); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Searches(gameID int64) ([]Search, error) {
	var out []Search
	if err := r.db.Select(&out, selectSearches, gameID); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayerStats counts wins, losses and ties per player label.
func (r *Repository) PlayerStats() ([]PlayerStat, error) {
	var out []PlayerStat
	if err := r.db.Select(&out, selectPlayerStats); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
