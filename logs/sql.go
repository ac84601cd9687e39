package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  id integer primary key autoincrement,
  time datetime,
  size int,
  black varchar,
  white varchar,
  result string,
  winner string,
  moves int,
  record text
)`

const createSearchTable = `
CREATE TABLE IF NOT EXISTS searches (
  game_id integer not null references games(id),
  ply int not null,
  label varchar,
  color string,
  move string,
  score integer,
  nodes integer,
  elapsed_ms integer,
  fallback boolean
)`

const createPlayerView = `
CREATE VIEW IF NOT EXISTS player_games (
  id, player, opponent, color, win, result, size, moves
) AS
SELECT id, white, black, 'white',
       CASE winner WHEN 'white' THEN 'win' WHEN 'black' THEN 'lose' ELSE 'tie' END,
       result, size, moves
 FROM games
UNION
SELECT id, black, white, 'black',
       CASE winner WHEN 'black' THEN 'win' WHEN 'white' THEN 'lose' ELSE 'tie' END,
       result, size, moves
 FROM games
`

const insertGame = `
INSERT INTO games (time, size, black, white, result, winner, moves, record)
VALUES (:time, :size, :black, :white, :result, :winner, :moves, :record)
`

const insertSearch = `
INSERT INTO searches (game_id, ply, label, color, move, score, nodes, elapsed_ms, fallback)
VALUES (:game_id, :ply, :label, :color, :move, :score, :nodes, :elapsed_ms, :fallback)
`

const selectGames = `
SELECT id, time, size, black, white, result, winner, moves, record
FROM games ORDER BY id
`

const selectSearches = `
SELECT game_id, ply, label, color, move, score, nodes, elapsed_ms, fallback
FROM searches WHERE game_id = ? ORDER BY ply
`

const selectPlayerStats = `
SELECT player, win, count(*) AS n
FROM player_games GROUP BY player, win ORDER BY player, win
`
