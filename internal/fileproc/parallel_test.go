package fileproc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/panbanda/mood/pkg/parser"
	"github.com/panbanda/mood/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countClasses(psr *parser.Parser, path string, content []byte) (int, error) {
	result, err := psr.Parse(context.Background(), content, path)
	if err != nil {
		return 0, err
	}
	defer result.Close()
	n := 0
	for _, node := range parser.NamedChildren(result.Root()) {
		if node.Type() == "class_definition" {
			n++
		}
	}
	return n, nil
}

func TestMapSourceFiles_PreservesOrder(t *testing.T) {
	files := make(map[string]string)
	var paths []string
	for i := range 50 {
		path := fmt.Sprintf("m%02d.py", i)
		content := ""
		for range i % 4 {
			content += fmt.Sprintf("class C%d:\n    pass\n", i)
		}
		files[path] = content
		paths = append(paths, path)
	}

	results, errs, err := MapSourceFiles(context.Background(), paths, source.NewMemory(files), Options{Workers: 4}, countClasses)
	require.NoError(t, err)
	assert.Nil(t, errs)
	require.Len(t, results, 50)
	for i, n := range results {
		assert.Equal(t, i%4, n, "results[%d]", i)
	}
}

func TestMapSourceFiles_Empty(t *testing.T) {
	results, errs, err := MapSourceFiles(context.Background(), nil, source.NewMemory(nil), Options{}, countClasses)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Empty(t, results)
}

func TestMapSourceFiles_CollectsErrors(t *testing.T) {
	src := source.NewMemory(map[string]string{
		"ok.py":   "class A:\n    pass\n",
		"big.py":  "class Big:\n    pass\n" + string(make([]byte, 200)),
		"boom.py": "class Boom:\n    pass\n",
	})
	fn := func(psr *parser.Parser, path string, content []byte) (int, error) {
		if path == "boom.py" {
			return 0, errors.New("boom")
		}
		return countClasses(psr, path, content)
	}

	var ticks atomic.Int32
	opts := Options{MaxSize: 100, OnProgress: func() { ticks.Add(1) }}
	results, errs, err := MapSourceFiles(context.Background(), []string{"ok.py", "missing.py", "big.py", "boom.py"}, src, opts, fn)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0, 0, 0}, results)
	assert.Equal(t, int32(4), ticks.Load(), "every file ticks once")

	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 3)
	byPath := make(map[string]error)
	for _, e := range errs.Errors {
		byPath[e.Path] = e.Err
	}
	assert.ErrorIs(t, byPath["big.py"], ErrTooLarge)
	assert.Contains(t, byPath["boom.py"].Error(), "boom")
	assert.Contains(t, errs.Error(), "3 files failed")
}

func TestMapSourceFiles_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := source.NewMemory(map[string]string{"a.py": "class A: pass\n"})
	_, _, err := MapSourceFiles(ctx, []string{"a.py"}, src, Options{}, countClasses)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessingError(t *testing.T) {
	err := ProcessingError{Path: "a.py", Err: ErrTooLarge}
	assert.Equal(t, "a.py: file exceeds size limit", err.Error())
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestProcessingErrors(t *testing.T) {
	var nilErrs *ProcessingErrors
	assert.False(t, nilErrs.HasErrors())

	errs := &ProcessingErrors{}
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no errors", errs.Error())

	errs.Add("a.py", errors.New("bad"))
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "a.py: bad", errs.Error())
}

func TestParserPool(t *testing.T) {
	p := newParserPool(1)
	a := p.get()
	b := p.get()
	assert.NotSame(t, a, b)

	p.put(a)
	p.put(b) // dropped: pool holds one
	assert.Same(t, a, p.get())

	p.close()
	assert.Empty(t, p.created)
}
