package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNoTx = errors.New("repositories have no transaction runner")

type Repos struct {
	Form       FormRepo
	Draft      DraftRepo
	Submission SubmissionRepo
	User       UserRepo
	Audit      AuditRepo

	Tx TxRunner
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Form:       NewFormRepo(db),
		Draft:      NewDraftRepo(db),
		Submission: NewSubmissionRepo(db),
		User:       NewUserRepo(db),
		Audit:      NewAuditRepo(db),
		Tx:         gormTx{db: db},
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Form:       r.Form.WithTx(tx),
		Draft:      r.Draft.WithTx(tx),
		Submission: r.Submission.WithTx(tx),
		User:       r.User.WithTx(tx),
		Audit:      r.Audit.WithTx(tx),
		Tx:         gormTx{db: tx},
	}
}

// ExecTx runs fn against repositories bound to one transaction. Either all
// of fn's writes commit or none do.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	if r.Tx == nil {
		return ErrNoTx
	}
	return r.Tx.Run(r, fn)
}

// TxRunner opens a transaction and hands fn repositories bound to it.
type TxRunner interface {
	Run(r *Repos, fn func(*Repos) error) error
}

type gormTx struct {
	db *gorm.DB
}

func (g gormTx) Run(r *Repos, fn func(*Repos) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
