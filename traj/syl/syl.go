/*
 * syl.go, part of aLENS-analysis.
 *
 * Copyright 2024 The aLENS-analysis authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package syl reads and writes sylinder trajectories.
//
// A file has a header of key=value lines, ended by a "** N F" line with the
// number of sylinders and of fields per sylinder. Each frame follows as
// N lines of F numbers, closed by a "* time" line. Files whose name ends in
// ".zst" are zstd-compressed.
//
// The keys simBoxLow and simBoxHigh, when present, hold the simulation box corners
// as 3 space-separated numbers, as in aLENS run configurations.
package syl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/klauspost/compress/zstd"
)

// Header keys for the simulation box.
const (
	BoxLowKey  = "simBoxLow"
	BoxHighKey = "simBoxHigh"
)

func compressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".zst")
}

//Write!

// SylW writes sylinder trajectories.
type SylW struct {
	f         *os.File
	z         io.WriteCloser
	h         *bufio.Writer
	nsyl      int
	fields    int
	filename  string
	writeable bool
}

// NewWriter creates the file name and writes the header to it. Header keys
// must not contain "=" or new lines.
func NewWriter(name string, nsyl, fields int, header map[string]string) (*SylW, error) {
	if nsyl < 1 || fields < nematic.MinFields {
		return nil, Error{fmt.Sprintf("can't write %d sylinders with %d fields", nsyl, fields), name, []string{"NewWriter"}, true}
	}
	S := &SylW{nsyl: nsyl, fields: fields, filename: name}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	var w io.Writer = S.f
	if compressed(name) {
		z, err := zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			S.f.Close()
			return nil, Error{"can't start compressor: " + err.Error(), name, []string{"NewWriter"}, true}
		}
		S.z = z
		w = z
	}
	S.h = bufio.NewWriter(w)
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(S.h, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(S.h, "** %d %d\n", nsyl, fields)
	S.writeable = true
	return S, nil
}

// WriteBox returns the header values for the box b.
func WriteBox(b nematic.Box) map[string]string {
	f := func(v [3]float64) string {
		return fmt.Sprintf("%s %s %s", ftoa(v[0]), ftoa(v[1]), ftoa(v[2]))
	}
	return map[string]string{BoxLowKey: f(b.Lower), BoxHighKey: f(b.Upper)}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Len returns the number of sylinders per frame.
func (S *SylW) Len() int {
	return S.nsyl
}

// WNext writes a frame. Numbers are written with full precision.
func (S *SylW) WNext(f *nematic.Frame) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if f == nil || f.Fields == nil {
		return Error{NilFrame, S.filename, []string{"WNext"}, true}
	}
	if f.Len() != S.nsyl || f.NFields() != S.fields {
		return Error{fmt.Sprintf("frame with %dx%d fields given, but %dx%d expected", f.Len(), f.NFields(), S.nsyl, S.fields), S.filename, []string{"WNext"}, true}
	}
	buf := make([]byte, 0, 24*S.fields)
	for i := 0; i < S.nsyl; i++ {
		buf = buf[:0]
		for j := 0; j < S.fields; j++ {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, f.Fields.At(i, j), 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := S.h.Write(buf); err != nil {
			return Error{err.Error(), S.filename, []string{"WNext"}, true}
		}
	}
	if _, err := fmt.Fprintf(S.h, "* %s\n", ftoa(f.Time)); err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

// Close flushes and closes the file.
func (S *SylW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.h.Flush()
	if S.z != nil {
		if err2 := S.z.Close(); err == nil {
			err = err2
		}
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

//Read!

// SylR reads sylinder trajectories. It implements nematic.Traj and nematic.BoxTraj.
type SylR struct {
	f        *os.File
	z        *zstd.Decoder
	h        *bufio.Reader
	header   map[string]string
	nsyl     int
	fields   int
	frame    int
	filename string
	readable bool
}

// New opens the trajectory name and reads its header, which is also returned.
func New(name string) (*SylR, map[string]string, error) {
	S := &SylR{filename: name, header: make(map[string]string)}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"New"}, true}
	}
	var r io.Reader = S.f
	if compressed(name) {
		S.z, err = zstd.NewReader(S.f)
		if err != nil {
			S.f.Close()
			return nil, nil, Error{"can't start decompressor: " + err.Error(), name, []string{"New"}, true}
		}
		r = S.z
	}
	S.h = bufio.NewReader(r)
	if err := S.readHeader(); err != nil {
		S.close()
		return nil, nil, errDecorate(err, "New")
	}
	S.readable = true
	return S, S.header, nil
}

func (S *SylR) readHeader() error {
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return Error{"can't read header: " + err.Error(), S.filename, []string{"readHeader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			dims := strings.Fields(str)
			if len(dims) != 3 {
				return Error{fmt.Sprintf("can't read the dimensions from '%s'", str), S.filename, []string{"readHeader"}, true}
			}
			var err1, err2 error
			S.nsyl, err1 = strconv.Atoi(dims[1])
			S.fields, err2 = strconv.Atoi(dims[2])
			if err1 != nil || err2 != nil || S.nsyl < 1 || S.fields < nematic.MinFields {
				return Error{fmt.Sprintf("invalid dimensions in '%s'", str), S.filename, []string{"readHeader"}, true}
			}
			return nil
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			return Error{"malformed header line: " + str, S.filename, []string{"readHeader"}, true}
		}
		S.header[k] = v
	}
}

// Readable returns true if the trajectory can still be read.
func (S *SylR) Readable() bool {
	return S.readable
}

// Len returns the number of sylinders per frame.
func (S *SylR) Len() int {
	return S.nsyl
}

// Fields returns the number of fields per sylinder.
func (S *SylR) Fields() int {
	return S.fields
}

// Header returns the header of the trajectory.
func (S *SylR) Header() map[string]string {
	return S.header
}

// Box returns the simulation box stored in the header.
func (S *SylR) Box() (nematic.Box, error) {
	b, err := HeaderBox(S.header)
	if err != nil {
		return b, nematic.Decorate(err, "SylR.Box "+S.filename)
	}
	return b, nil
}

// HeaderBox returns the box stored in a trajectory header.
func HeaderBox(header map[string]string) (nematic.Box, error) {
	low, okl := header[BoxLowKey]
	high, okh := header[BoxHighKey]
	if !okl || !okh {
		return nematic.Box{}, nematic.NewError(nematic.ErrMalformedInput, "HeaderBox", "header has no %s and %s", BoxLowKey, BoxHighKey)
	}
	l, err := parseFloats(low)
	if err != nil {
		return nematic.Box{}, nematic.NewError(nematic.ErrMalformedInput, "HeaderBox", "%s: %s", BoxLowKey, err.Error())
	}
	h, err := parseFloats(high)
	if err != nil {
		return nematic.Box{}, nematic.NewError(nematic.ErrMalformedInput, "HeaderBox", "%s: %s", BoxHighKey, err.Error())
	}
	b, err := nematic.NewBox(l, h)
	return b, nematic.Decorate(err, "HeaderBox")
}

func parseFloats(s string) ([]float64, error) {
	fs := strings.Fields(s)
	ret := make([]float64, len(fs))
	for i, v := range fs {
		var err error
		if ret[i], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Next reads the next frame into f, which must have Len() rows and Fields() columns.
// If f is nil, the frame is read and discarded. At the end of the trajectory
// it closes the file and returns an error that implements nematic.LastFrameError.
func (S *SylR) Next(f *nematic.Frame) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if f != nil && (f.Fields == nil || f.Len() != S.nsyl || f.NFields() != S.fields) {
		return Error{fmt.Sprintf("frame buffer doesn't have %dx%d fields", S.nsyl, S.fields), S.filename, []string{"Next"}, true}
	}
	for i := 0; i < S.nsyl; i++ {
		line, err := S.h.ReadString('\n')
		if err != nil {
			if err == io.EOF && i == 0 && strings.TrimSpace(line) == "" {
				S.close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{fmt.Sprintf("%s in frame %d, sylinder %d: %s", ReadError, S.frame, i, err.Error()), S.filename, []string{"Next"}, true}
		}
		vals := strings.Fields(line)
		if len(vals) != S.fields {
			return Error{fmt.Sprintf("%s: frame %d, sylinder %d has %d fields, expected %d", WrongFormat, S.frame, i, len(vals), S.fields), S.filename, []string{"Next"}, true}
		}
		if f == nil {
			continue
		}
		row := f.Fields.RawRowView(i)
		for j, v := range vals {
			if row[j], err = strconv.ParseFloat(v, 64); err != nil {
				return Error{fmt.Sprintf("%s: frame %d, sylinder %d, field %d: %s", WrongFormat, S.frame, i, j, err.Error()), S.filename, []string{"Next"}, true}
			}
		}
	}
	end, err := S.h.ReadString('\n')
	if err == io.EOF && strings.HasPrefix(end, "*") {
		err = nil //last line without a newline
	}
	if err != nil || !strings.HasPrefix(end, "*") {
		return Error{fmt.Sprintf("%s: no termination mark for frame %d, wrong number of sylinders?", WrongFormat, S.frame), S.filename, []string{"Next"}, true}
	}
	if f != nil {
		t := strings.Fields(strings.TrimPrefix(end, "*"))
		f.Time = 0
		if len(t) > 0 {
			if f.Time, err = strconv.ParseFloat(t[0], 64); err != nil {
				return Error{fmt.Sprintf("%s: can't read the time of frame %d: %s", WrongFormat, S.frame, err.Error()), S.filename, []string{"Next"}, true}
			}
		}
	}
	S.frame++
	return nil
}

func (S *SylR) close() {
	if S.z != nil {
		S.z.Close()
	}
	S.f.Close()
	S.readable = false
}

// Close closes the trajectory. It is safe to call more than once.
func (S *SylR) Close() {
	if !S.readable {
		return
	}
	S.close()
}

// Errors

func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case Error:
		e.deco = append(e.deco, caller)
		return e
	case *lastFrameError:
		e.Decorate(caller)
	}
	return err
}

// Error is the error type of the package. It implements nematic.TrajError,
// and errors.Is matches it against nematic.ErrMalformedInput.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("syl file %s error: %s", err.filename, err.message)
}

// Decorate returns the decorations of the error, adding deco.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Format() string { return "syl" }

func (err Error) Critical() bool { return err.critical }

func (err Error) Unwrap() error { return nematic.ErrMalformedInput }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilFrame       = "Given nil frame"
	WrongFormat    = "Wrong format in the syl file or frame"
)

type lastFrameError struct {
	deco     []string
	fileName string
}

func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "syl" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
