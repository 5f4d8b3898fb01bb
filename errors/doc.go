/*
Package errors provides the error kinds shared by every stakeweave extension.

A kind is a root error created once with Register. Its code is the ABCI code
reported to clients, so no two kinds may share a code. Extensions keep their
own kinds in a small reserved range (sigs 120, cash 200, pool 300).

Runtime errors always wrap a kind:

	errors.Wrap(errors.ErrNotFound, "stake")
	errors.ErrInput.Newf("duration %d", d)

and are tested with the kind, never by comparing messages:

	if errors.ErrNotFound.Is(err) { ... }

The innermost wrap records a stack trace. Print with %+v for the full trace,
%v for a short file:line suffix and %s for the message alone.

Validation code collects problems with AppendField so that a single response
lists every invalid attribute of a model or message.
*/
package errors
