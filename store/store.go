/*
 * store.go, part of aLENS-analysis.
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

// Package store keeps named, shaped float64 arrays plus scalar and list
// attributes, and saves them as a zstd-compressed JSON document.
// Array data is stored as little-endian float64 bytes, so values
// (including NaN and infinities) survive a round trip bit for bit.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

// Array is a named array with a row-major shape.
type Array struct {
	Name  string
	Shape []int
	Data  []float64
}

// Len returns the number of elements the shape calls for.
func (a *Array) Len() int {
	n := 1
	for _, v := range a.Shape {
		n *= v
	}
	return n
}

// Dense returns a 2D array as a gonum matrix sharing its data.
func (a *Array) Dense() (*mat.Dense, error) {
	if len(a.Shape) != 2 || a.Shape[0] == 0 || a.Shape[1] == 0 {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Array.Dense", "array %s with shape %v is not a non-empty matrix", a.Name, a.Shape)
	}
	return mat.NewDense(a.Shape[0], a.Shape[1], a.Data), nil
}

// Archive is a set of named arrays and attributes.
type Archive struct {
	arrays map[string]*Array
	attrs  map[string]interface{}
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{arrays: make(map[string]*Array), attrs: make(map[string]interface{})}
}

// Put adds or replaces an array. The length of data must match the shape.
func (A *Archive) Put(name string, data []float64, shape ...int) error {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	a := &Array{Name: name, Shape: append([]int(nil), shape...), Data: data}
	if a.Len() != len(data) {
		return nematic.NewError(nematic.ErrMalformedInput, "Archive.Put", "array %s has %d elements, shape %v needs %d", name, len(data), shape, a.Len())
	}
	A.arrays[name] = a
	return nil
}

// PutDense adds a matrix as a 2D array. The data is copied.
func (A *Archive) PutDense(name string, m mat.Matrix) error {
	r, c := m.Dims()
	d := mat.DenseCopyOf(m)
	return A.Put(name, d.RawMatrix().Data, r, c)
}

// Array returns the named array, or nil if there is none.
func (A *Archive) Array(name string) *Array {
	return A.arrays[name]
}

// Names returns the names of all arrays, sorted.
func (A *Archive) Names() []string {
	ret := make([]string, 0, len(A.arrays))
	for k := range A.arrays {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// SetAttr sets an attribute. Values must be JSON-encodable: numbers, strings,
// bools, or slices of them.
func (A *Archive) SetAttr(name string, v interface{}) {
	A.attrs[name] = v
}

// Attr returns the raw attribute value.
func (A *Archive) Attr(name string) (interface{}, bool) {
	v, ok := A.attrs[name]
	return v, ok
}

// Float returns a numeric attribute.
func (A *Archive) Float(name string) (float64, error) {
	v, ok := A.attrs[name]
	if !ok {
		return 0, nematic.NewError(nematic.ErrMalformedInput, "Archive.Float", "no attribute %s", name)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, nematic.NewError(nematic.ErrMalformedInput, "Archive.Float", "attribute %s is a %T, not a number", name, v)
	}
	return f, nil
}

// Int returns an integer attribute.
func (A *Archive) Int(name string) (int, error) {
	f, err := A.Float(name)
	if err != nil {
		return 0, nematic.Decorate(err, "Archive.Int")
	}
	if f != math.Trunc(f) {
		return 0, nematic.NewError(nematic.ErrMalformedInput, "Archive.Int", "attribute %s is %g, not an integer", name, f)
	}
	return int(f), nil
}

// String returns a string attribute.
func (A *Archive) String(name string) (string, error) {
	v, ok := A.attrs[name]
	s, isString := v.(string)
	if !ok || !isString {
		return "", nematic.NewError(nematic.ErrMalformedInput, "Archive.String", "no string attribute %s", name)
	}
	return s, nil
}

// Floats returns a list attribute of numbers. An empty list gives an empty slice.
func (A *Archive) Floats(name string) ([]float64, error) {
	v, ok := A.attrs[name]
	if !ok {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Archive.Floats", "no attribute %s", name)
	}
	var ret []float64
	switch l := v.(type) {
	case []float64:
		ret = append(ret, l...)
	case []int:
		for _, i := range l {
			ret = append(ret, float64(i))
		}
	case []interface{}:
		for i, e := range l {
			f, ok := toFloat(e)
			if !ok {
				return nil, nematic.NewError(nematic.ErrMalformedInput, "Archive.Floats", "element %d of attribute %s is not a number", i, name)
			}
			ret = append(ret, f)
		}
	default:
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Archive.Floats", "attribute %s is a %T, not a list", name, v)
	}
	if ret == nil {
		ret = []float64{}
	}
	return ret, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// wire format
type document struct {
	Attrs  map[string]interface{} `json:"attrs"`
	Arrays []wireArray            `json:"arrays"`
}

type wireArray struct {
	Name  string `json:"name"`
	Shape []int  `json:"shape"`
	Data  []byte `json:"data"`
}

// Write encodes the archive to w, uncompressed.
func (A *Archive) Write(w io.Writer) error {
	doc := document{Attrs: A.attrs}
	for _, name := range A.Names() {
		a := A.arrays[name]
		b := make([]byte, 8*len(a.Data))
		for i, v := range a.Data {
			binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
		}
		doc.Arrays = append(doc.Arrays, wireArray{Name: a.Name, Shape: a.Shape, Data: b})
	}
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return nematic.NewError(nematic.ErrMalformedInput, "Archive.Write", "can't encode archive: %s", err.Error())
	}
	return nil
}

// Read decodes an uncompressed archive from r.
func Read(r io.Reader) (*Archive, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Read", "can't decode archive: %s", err.Error())
	}
	A := New()
	for k, v := range doc.Attrs {
		A.attrs[k] = v
	}
	for _, w := range doc.Arrays {
		if len(w.Data)%8 != 0 {
			return nil, nematic.NewError(nematic.ErrMalformedInput, "Read", "array %s has %d data bytes", w.Name, len(w.Data))
		}
		data := make([]float64, len(w.Data)/8)
		for i := range data {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(w.Data[8*i:]))
		}
		if err := A.Put(w.Name, data, w.Shape...); err != nil {
			return nil, nematic.Decorate(err, "Read")
		}
	}
	return A, nil
}

// Save writes the archive, zstd-compressed, to the file name.
// Failures to create, write or close the file are resource errors.
func (A *Archive) Save(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return nematic.NewError(nematic.ErrResource, "Archive.Save", "%s", err.Error())
	}
	if err := A.compress(f); err != nil {
		f.Close()
		return nematic.Decorate(err, "Archive.Save")
	}
	if err := f.Close(); err != nil {
		return nematic.NewError(nematic.ErrResource, "Archive.Save", "can't close %s: %s", name, err.Error())
	}
	return nil
}

func (A *Archive) compress(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nematic.NewError(nematic.ErrResource, "compress", "can't start compressor: %s", err.Error())
	}
	if err := A.Write(zw); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return nematic.NewError(nematic.ErrResource, "compress", "%s", err.Error())
	}
	return nil
}

// Load reads a zstd-compressed archive from the file name.
func Load(name string) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Load", "%s", err.Error())
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Load", "%s is not a zstd stream: %s", name, err.Error())
	}
	defer zr.Close()
	A, err := Read(zr)
	if err != nil {
		return nil, nematic.Decorate(err, fmt.Sprintf("Load %s", name))
	}
	return A, nil
}
