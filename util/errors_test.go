package util

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	root := errors.New("disk full")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "single",
			err:  root,
			want: "disk full\n",
		},
		{
			name: "wrapped twice",
			err:  fmt.Errorf("write entry a.txt: %w", fmt.Errorf("flush: %w", root)),
			want: "write entry a.txt\nflush\ndisk full\n",
		},
		{
			name: "bare wrap adds no line",
			err:  fmt.Errorf("%w", root),
			want: "disk full\n",
		},
		{
			name: "message not ending in cause",
			err:  fmt.Errorf("failed (%w) badly", root),
			want: "failed (disk full) badly\ndisk full\n",
		},
		{
			name: "joined causes depth first",
			err: errors.Join(
				fmt.Errorf("a: %w", fs.ErrPermission),
				fmt.Errorf("b: %w", fs.ErrNotExist),
			),
			want: "a\npermission denied\nb\nfile does not exist\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.err))
		})
	}
}

type coded struct {
	msg   string
	cause error
}

func (c *coded) Error() string { return c.msg + ": " + c.cause.Error() }
func (c *coded) Unwrap() error { return c.cause }

func TestFlatten_CustomUnwrap(t *testing.T) {
	err := &coded{msg: "compression failed", cause: fmt.Errorf("open: %w", fs.ErrNotExist)}
	assert.Equal(t, "compression failed\nopen\nfile does not exist\n", Flatten(err))
}

type nilUnsafe struct{ msg string }

func (n *nilUnsafe) Error() string { return n.msg }

func TestFlatten_TypedNil(t *testing.T) {
	var n *nilUnsafe
	assert.NotPanics(t, func() {
		assert.Equal(t, "<nil>\n", Flatten(n))
	})

	wrapped := fmt.Errorf("outer: %w", error(n))
	assert.NotPanics(t, func() {
		assert.Equal(t, "outer\n<nil>\n", Flatten(wrapped))
	})
}

type panickyUnwrap struct{}

func (panickyUnwrap) Error() string { return "wrapper" }
func (panickyUnwrap) Unwrap() error { panic("broken") }

func TestFlatten_PanickingUnwrap(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "<nil>\n", Flatten(panickyUnwrap{}))
	})
}
