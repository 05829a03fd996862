package actions

import (
	"errors"
	"fmt"

	"pstack.dev/pstack/internal/engine"
	pserrors "pstack.dev/pstack/internal/errors"
	"pstack.dev/pstack/internal/output"
	"pstack.dev/pstack/internal/runtime"
)

// RefreshOptions contains the refresh command's options as the user typed them
type RefreshOptions struct {
	Patch     string
	Files     []string
	Message   string
	Edit      bool
	ShowPatch bool
	Update    bool
	Force     bool
	Undo      bool
	Annotate  string

	// Author is "Name <email>"; AuthName and AuthEmail override its parts
	Author    string
	AuthName  string
	AuthEmail string
	AuthDate  string
	CommName  string
	CommEmail string

	SignOff bool
	Ack     bool
}

// RefreshAction folds working-tree changes into a patch
func RefreshAction(ctx *runtime.Context, opts RefreshOptions) error {
	engineOpts, err := opts.engineOptions(ctx)
	if err != nil {
		return err
	}

	stack, err := ctx.LoadStack()
	if err != nil {
		return err
	}

	result, err := engine.Refresh(ctx, stack, engineOpts)
	if result != nil {
		ctx.Splog.Info("%s", output.FormatRefresh(result))
	}
	if err != nil {
		var conflict *pserrors.PushConflictError
		if errors.As(err, &conflict) {
			PrintConflictStatus(ctx, conflict)
		}
		return err
	}
	return nil
}

// engineOptions validates the user-facing values and converts them
func (o RefreshOptions) engineOptions(ctx *runtime.Context) (engine.RefreshOptions, error) {
	author, err := o.authorOverride()
	if err != nil {
		return engine.RefreshOptions{}, err
	}

	var signer engine.SignatureOverride
	if id := ctx.SignOffIdentity(); id != "" && (o.SignOff || o.Ack) {
		name, email, err := ParseIdentity(id)
		if err != nil {
			return engine.RefreshOptions{}, fmt.Errorf("invalid sign-off identity: %w", err)
		}
		signer = engine.SignatureOverride{Name: name, Email: email}
	}

	opts := engine.RefreshOptions{
		Patch:     o.Patch,
		Files:     o.Files,
		Message:   o.Message,
		Edit:      o.Edit,
		ShowPatch: o.ShowPatch,
		Update:    o.Update,
		Force:     o.Force,
		Undo:      o.Undo,
		Annotate:  o.Annotate,
		Author:    author,
		Committer: engine.SignatureOverride{Name: o.CommName, Email: o.CommEmail},
		SignOff:   o.SignOff,
		Ack:       o.Ack,
		Signer:    signer,
	}
	if o.Edit || o.ShowPatch {
		opts.Editor = ctx.Editor().EditFunc(ctx)
	}
	return opts, nil
}

func (o RefreshOptions) authorOverride() (engine.SignatureOverride, error) {
	var author engine.SignatureOverride
	if o.Author != "" {
		name, email, err := ParseIdentity(o.Author)
		if err != nil {
			return author, fmt.Errorf("invalid --author: %w", err)
		}
		author.Name, author.Email = name, email
	}
	if o.AuthName != "" {
		author.Name = o.AuthName
	}
	if o.AuthEmail != "" {
		author.Email = o.AuthEmail
	}
	if o.AuthDate != "" {
		when, err := ParseDate(o.AuthDate)
		if err != nil {
			return author, fmt.Errorf("invalid --authdate: %w", err)
		}
		author.When = &when
	}
	return author, nil
}
