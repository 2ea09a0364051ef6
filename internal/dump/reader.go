// Package dump reads LAMMPS text dump files and converts them to
// AtomEye CFG configurations or grain-boundary energy reports.
// Input files may be gzip- or bzip2-compressed.
package dump

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reader parses the header of a LAMMPS dump file and hands out atom
// lines.
type Reader struct {
	Path      string
	NAtoms    int
	PBC       [3]float64 // box edge lengths
	PBCLo     [3]float64 // box lower bounds
	ExtraCols []string   // dump columns after id type x y z

	f  *os.File
	rc io.ReadCloser
	br *bufio.Reader
}

// Open opens a dump file (optionally .gz or .bz2) and reads its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &Reader{Path: path, f: f}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r.rc = gz
		r.br = bufio.NewReader(gz)
	case strings.HasSuffix(path, ".bz2"):
		r.br = bufio.NewReader(bzip2.NewReader(f))
	default:
		r.br = bufio.NewReader(f)
	}
	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	expect := func(prefix string) (string, error) {
		line, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("expected %q, got %q", prefix, line)
		}
		return line, nil
	}

	if _, err := expect("ITEM: TIMESTEP"); err != nil {
		return err
	}
	if _, err := r.ReadLine(); err != nil { // timestep value
		return err
	}
	if _, err := expect("ITEM: NUMBER OF ATOMS"); err != nil {
		return err
	}
	nLine, err := r.ReadLine()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(nLine))
	if err != nil {
		return fmt.Errorf("atom count: %w", err)
	}
	r.NAtoms = n

	if _, err := expect("ITEM: BOX BOUNDS"); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		line, err := r.ReadLine()
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("box bounds line %q", line)
		}
		lo, err1 := strconv.ParseFloat(fields[0], 64)
		hi, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("box bounds line %q", line)
		}
		r.PBCLo[i] = lo
		r.PBC[i] = hi - lo
	}

	atomsLine, err := expect("ITEM: ATOMS id type x y z")
	if err != nil {
		return err
	}
	r.ExtraCols = strings.Fields(atomsLine)[7:]
	return nil
}

// ReadLine returns the next line without its trailing newline.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close releases the underlying file and any decompressor.
func (r *Reader) Close() error {
	if r.rc != nil {
		r.rc.Close()
	}
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

// AtomRecord is one parsed dump atom line.
type AtomRecord struct {
	ID    int
	Type  int
	Pos   [3]float64 // raw dump coordinates
	Extra string     // remaining columns, unparsed
	Value float64    // last column (per-atom energy by convention)
}

// ReadAtom parses the next atom line.
func (r *Reader) ReadAtom() (AtomRecord, error) {
	var rec AtomRecord
	line, err := r.ReadLine()
	if err != nil {
		return rec, err
	}
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return rec, fmt.Errorf("short atom line %q", line)
	}
	if rec.ID, err = strconv.Atoi(fields[0]); err != nil {
		return rec, fmt.Errorf("atom id in %q: %w", line, err)
	}
	if rec.Type, err = strconv.Atoi(fields[1]); err != nil {
		return rec, fmt.Errorf("atom type in %q: %w", line, err)
	}
	for i := 0; i < 3; i++ {
		if rec.Pos[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
			return rec, fmt.Errorf("atom position in %q: %w", line, err)
		}
	}
	if len(fields) > 5 {
		rec.Extra = strings.Join(fields[5:], " ")
	}
	if rec.Value, err = strconv.ParseFloat(fields[len(fields)-1], 64); err != nil {
		return rec, fmt.Errorf("atom value in %q: %w", line, err)
	}
	return rec, nil
}
