// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func testHeader() Header {
	return Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	}
}

func TestAddAndWrite(t *testing.T) {
	c := qt.New(t)
	builder := NewBuilder(testHeader())

	c.Assert(builder.Add("test", strings.NewReader(testString1)), qt.IsNil)
	c.Assert(builder.Add("test2", strings.NewReader(testString2)), qt.IsNil)
	c.Assert(builder.Len(), qt.Equals, 2)

	var buf bytes.Buffer
	written, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(written, qt.Equals, int64(buf.Len()))
	c.Assert(buf.Bytes()[:MagicLength], qt.DeepEquals, []byte("KAR\x00"))
}

func TestAddDuplicate(t *testing.T) {
	c := qt.New(t)
	builder := NewBuilder(testHeader())

	c.Assert(builder.Add("test", strings.NewReader(testString1)), qt.IsNil)
	c.Assert(builder.Add("test", strings.NewReader(testString2)), qt.ErrorMatches, "duplicate file test")
}

func TestAddConcurrently(t *testing.T) {
	c := qt.New(t)
	builder := NewBuilder(testHeader())

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			c.Check(builder.Add(name, strings.NewReader(strings.Repeat(name, 1000))), qt.IsNil)
		}(name)
	}
	wg.Wait()
	c.Assert(builder.Len(), qt.Equals, 4)
}

func TestWriteToOffsets(t *testing.T) {
	c := qt.New(t)
	builder := NewBuilder(testHeader())
	c.Assert(builder.Add("test", strings.NewReader(testString1)), qt.IsNil)
	c.Assert(builder.Add("test2", strings.NewReader(testString2)), qt.IsNil)

	var buf bytes.Buffer
	_, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)

	ar, err := Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	index := ar.Header().Index
	c.Assert(index, qt.HasLen, 2)
	c.Assert(index[0].Offset, qt.Equals, int64(0))
	c.Assert(index[1].Offset, qt.Equals, index[0].CompressedSize)
	c.Assert(index[1].Size, qt.Equals, int64(len(testString2)))
	c.Assert(ar.dataStart+index[1].Offset+index[1].CompressedSize, qt.Equals, int64(buf.Len()))
}
