package notation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/nelhage/gomoku/gomoku"
)

type Tag struct {
	Name  string
	Value string
}

// Result tokens, from the first player's (black's) point of view.
const (
	BlackWins  = "1-0"
	WhiteWins  = "0-1"
	Draw       = "1/2-1/2"
	Unfinished = "*"
)

// Record is a game record: a set of tags followed by the moves
// played, alternating colors starting with the side to move in the
// initial position.
type Record struct {
	Tags   []Tag
	Moves  []gomoku.Move
	Result string
}

func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRecord(f)
}

func ParseRecord(r io.Reader) (*Record, error) {
	buf := bufio.NewReader(r)
	var rec Record
	if err := readTags(buf, &rec); err != nil && err != io.EOF {
		return nil, err
	}
	if err := readMoves(buf, &rec); err != nil && err != io.EOF {
		return nil, err
	}
	return &rec, nil
}

func (r *Record) FindTag(name string) string {
	t, _ := lo.Find(r.Tags, func(t Tag) bool { return t.Name == name })
	return t.Value
}

func (r *Record) SetTag(name, value string) {
	for i := range r.Tags {
		if r.Tags[i].Name == name {
			r.Tags[i].Value = value
			return
		}
	}
	r.Tags = append(r.Tags, Tag{Name: name, Value: value})
}

// InitialPosition returns the position named by the "Position" tag,
// or an empty board of the tagged size.
func (r *Record) InitialPosition() (*gomoku.Position, error) {
	size := gomoku.DefaultSize
	if tag := r.FindTag("Size"); tag != "" {
		var err error
		size, err = strconv.Atoi(tag)
		if err != nil {
			return nil, fmt.Errorf("bad size: %s", tag)
		}
	}
	tps := r.FindTag("Position")
	if tps == "" {
		return gomoku.New(gomoku.Config{Size: size})
	}
	p, err := ParsePosition(tps)
	if err != nil {
		return nil, fmt.Errorf("bad position: %w", err)
	}
	if p.Size() != size {
		return nil, fmt.Errorf("size mismatch: tag %d != position %d", size, p.Size())
	}
	return p, nil
}

// PositionAt replays the first n moves of the record. n < 0 replays
// every move.
func (r *Record) PositionAt(n int) (*gomoku.Position, error) {
	p, err := r.InitialPosition()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > len(r.Moves) {
		n = len(r.Moves)
	}
	for i, m := range r.Moves[:n] {
		p, err = p.Move(m)
		if err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, FormatSquare(m), err)
		}
	}
	return p, nil
}

func (r *Record) Render() string {
	var out bytes.Buffer
	for _, tag := range r.Tags {
		fmt.Fprintf(&out, "[%s \"%s\"]\n",
			tag.Name, strings.Replace(tag.Value, "\"", "", -1),
		)
	}
	out.WriteString("\n")
	for i, m := range r.Moves {
		if i%2 == 0 {
			if i != 0 {
				out.WriteString("\n")
			}
			fmt.Fprintf(&out, "%d.", i/2+1)
		}
		fmt.Fprintf(&out, " %s", FormatSquare(m))
	}
	if r.Result != "" {
		fmt.Fprintf(&out, "\n%s", r.Result)
	}
	out.WriteString("\n")
	return out.String()
}

// ResultToken formats a winner as a result token.
func ResultToken(over bool, winner gomoku.Color) string {
	switch {
	case !over:
		return Unfinished
	case winner == gomoku.Black:
		return BlackWins
	case winner == gomoku.White:
		return WhiteWins
	default:
		return Draw
	}
}

func readTags(r *bufio.Reader, rec *Record) error {
	for {
		if err := skipWS(r); err != nil {
			return err
		}
		c, err := r.ReadByte()
		if err != nil {
			return err
		}
		if c != '[' {
			return r.UnreadByte()
		}
		line, err := r.ReadString(']')
		if err != nil {
			return err
		}
		line = line[:len(line)-1]
		bits := strings.SplitN(line, " ", 2)
		if len(bits) != 2 {
			return errors.New("bad tag")
		}
		rec.Tags = append(rec.Tags, Tag{
			Name:  bits[0],
			Value: strings.Trim(bits[1], "\""),
		})
	}
}

func readMoves(r *bufio.Reader, rec *Record) error {
	s := bufio.NewScanner(r)
	s.Split(splitTokens)
	for s.Scan() {
		tok := s.Text()
		switch {
		case tok[0] == '{':
		case tok[len(tok)-1] == '.':
			if _, err := strconv.Atoi(tok[:len(tok)-1]); err != nil {
				return fmt.Errorf("bad move number: %q", tok)
			}
		case tok == BlackWins, tok == WhiteWins, tok == Draw, tok == Unfinished:
			rec.Result = tok
		default:
			m, err := ParseSquare(tok)
			if err != nil {
				return fmt.Errorf("%q: %w", tok, err)
			}
			rec.Moves = append(rec.Moves, m)
		}
	}
	return s.Err()
}

func splitTokens(buf []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(buf) && unicode.IsSpace(rune(buf[start])) {
		start++
	}
	if start == len(buf) {
		return start, nil, nil
	}
	if buf[start] == '{' {
		for i := start; i < len(buf); i++ {
			if buf[i] == '}' {
				return i + 1, buf[start : i+1], nil
			}
		}
	} else {
		for i := start; i < len(buf); i++ {
			if unicode.IsSpace(rune(buf[i])) {
				return i + 1, buf[start:i], nil
			}
		}
	}
	if atEOF {
		return len(buf), buf[start:], nil
	}
	return start, nil, nil
}

func skipWS(r *bufio.Reader) error {
	for {
		c, err := r.ReadByte()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(rune(c)) {
			return r.UnreadByte()
		}
	}
}
