// Package authz evaluates the declarative per-model access rules: an owner
// rule keyed on the caller's subject claim, and an authenticated rule that
// grants a fixed set of operations to any signed-in identity.
package authz

import (
	"errors"
	"fmt"
)

// Operation is a record operation subject to access rules.
type Operation string

const (
	Create Operation = "create"
	Read   Operation = "read"
	Update Operation = "update"
	Delete Operation = "delete"
)

var allOperations = []Operation{Create, Read, Update, Delete}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Identity is the verified caller.
type Identity struct {
	Subject  string
	Username string
	Email    string
	Groups   []string
}

// Authenticated reports whether the identity carries a subject claim.
func (id Identity) Authenticated() bool {
	return id.Subject != ""
}

// InGroup reports whether the identity is a member of group.
func (id Identity) InGroup(group string) bool {
	for _, g := range id.Groups {
		if g == group {
			return true
		}
	}
	return false
}

type ruleKind int

const (
	ownerRule ruleKind = iota
	authenticatedRule
)

// Rule grants operations to a class of callers.
type Rule struct {
	kind ruleKind
	ops  map[Operation]bool
}

// Owner grants every operation to the identity whose subject equals the
// record's owner field. On create the owner field is the caller's own.
func Owner() Rule {
	return Rule{kind: ownerRule, ops: opSet(allOperations)}
}

// Authenticated grants ops to any signed-in identity.
func Authenticated(ops ...Operation) Rule {
	return Rule{kind: authenticatedRule, ops: opSet(ops)}
}

func opSet(ops []Operation) map[Operation]bool {
	m := make(map[Operation]bool, len(ops))
	for _, op := range ops {
		m[op] = true
	}
	return m
}

func (r Rule) allows(op Operation, id Identity, owner string) bool {
	if !r.ops[op] {
		return false
	}
	switch r.kind {
	case ownerRule:
		if op == Create {
			return true
		}
		return owner != "" && owner == id.Subject
	case authenticatedRule:
		return true
	}
	return false
}

// Schema maps model names to their rules.
type Schema map[string][]Rule

// Allow reports whether id may perform op on a record of model owned by
// owner. Unauthenticated identities are never allowed. Unknown models have
// no rules and deny everything.
func (s Schema) Allow(model string, op Operation, id Identity, owner string) bool {
	if !id.Authenticated() {
		return false
	}
	for _, r := range s[model] {
		if r.allows(op, id, owner) {
			return true
		}
	}
	return false
}

// Check is Allow returning ErrUnauthenticated or ErrForbidden.
func (s Schema) Check(model string, op Operation, id Identity, owner string) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	if !s.Allow(model, op, id, owner) {
		return fmt.Errorf("%w: %s %s", ErrForbidden, op, model)
	}
	return nil
}
