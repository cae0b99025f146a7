package source

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Snapshot is an immutable view of one version of a source text.
// Every chart, diagnostic and line position is derived from exactly one
// snapshot; a LineRange carries the snapshot ID it was taken from, so a
// position from a previous version of the text can never be applied
// silently to a newer one.
type Snapshot struct {
	ID      uuid.UUID
	Name    string
	Content string
	Hash    [32]byte
	Flags   Flags

	lines   []string
	finalNL bool // Content ends with '\n'
}

// Flags encodes what load-time normalization was applied.
type Flags uint8

const (
	// FlagHadBOM indicates a UTF-8 BOM was stripped on load.
	FlagHadBOM Flags = 1 << iota
	// FlagHadCRLF indicates CRLF line endings were normalized on load.
	FlagHadCRLF
	// FlagRenormalized indicates the content was not in NFC form.
	FlagRenormalized
)

// New builds a snapshot over text exactly as given. Mutators go through
// New so that unrelated formatting survives a round-trip untouched.
func New(name, text string) *Snapshot {
	snap := &Snapshot{
		ID:      uuid.New(),
		Name:    name,
		Content: text,
		Hash:    sha256.Sum256([]byte(text)),
	}
	body := text
	if strings.HasSuffix(body, "\n") {
		snap.finalNL = true
		body = body[:len(body)-1]
	}
	if body == "" && !snap.finalNL {
		snap.lines = nil
	} else {
		snap.lines = strings.Split(body, "\n")
	}
	return snap
}

// Load reads a file from disk, normalizes BOM/CRLF/NFC and builds a
// snapshot. Normalization happens only here: snapshots created by
// mutators via New keep their text verbatim.
func Load(path string) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, flags := Normalize(content)
	snap := New(path, string(content))
	snap.Flags = flags
	return snap, nil
}

// LineCount returns the number of lines in the snapshot.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// Line returns the text of the 0-based line i without its newline.
// Out-of-range indexes yield an empty string.
func (s *Snapshot) Line(i int) string {
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i]
}

// LinesCopy returns a fresh copy of all lines. Mutators build the new
// text from this copy so the snapshot itself stays immutable.
func (s *Snapshot) LinesCopy() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// FinalNewline reports whether the original text ended with '\n'.
func (s *Snapshot) FinalNewline() bool {
	return s.finalNL
}

// Join rebuilds a full text from lines, preserving the snapshot's
// trailing-newline convention.
func (s *Snapshot) Join(lines []string) string {
	out := strings.Join(lines, "\n")
	if s.finalNL && len(lines) > 0 {
		out += "\n"
	}
	return out
}

// Owns reports whether the range was derived from this snapshot.
func (s *Snapshot) Owns(r LineRange) bool {
	return r.Snap == s.ID
}

// Text returns the joined text of the lines covered by r, or an empty
// string for a stale or empty range.
func (s *Snapshot) Text(r LineRange) string {
	if !s.Owns(r) || r.Empty() {
		return ""
	}
	end := int(r.End)
	if end > len(s.lines) {
		end = len(s.lines)
	}
	first := int(r.First)
	if first >= end {
		return ""
	}
	return strings.Join(s.lines[first:end], "\n")
}
