package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingTx struct {
	runs int
}

func (r *recordingTx) Run(repos *Repos, fn func(*Repos) error) error {
	r.runs++
	return fn(repos)
}

func TestExecTx_RequiresRunner(t *testing.T) {
	called := false
	err := (&Repos{}).ExecTx(func(*Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNoTx)
	assert.False(t, called)
}

func TestExecTx_DelegatesToRunner(t *testing.T) {
	tx := &recordingTx{}
	repos := &Repos{Tx: tx}
	boom := errors.New("boom")

	var got *Repos
	err := repos.ExecTx(func(r *Repos) error {
		got = r
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Same(t, repos, got)
	assert.Equal(t, 1, tx.runs)
}
