package mtg

import (
	"fmt"
	"net/url"
	"strings"
)

// Filter separators.
const (
	// SeparatorClause joins key=value clauses.
	SeparatorClause = "&"

	// SeparatorKeyValue splits a clause into key and value.
	SeparatorKeyValue = "="

	// SeparatorAnd joins values that must all match.
	SeparatorAnd = ","

	// SeparatorOr joins values of which any may match.
	SeparatorOr = "|"
)

// Set filter keys understood by the sets endpoint.
const (
	SetFilterKeyName  = "name"
	SetFilterKeyBlock = "block"
)

// SetFilter is the encoded filter string sent with filtered set requests,
// e.g. "name=Khans of Tarkir&block=Khans of Tarkir".
//
// Two filters are equal when their strings are equal. The zero value means
// "no filtering".
type SetFilter string

// String returns the filter in its wire form.
func (f SetFilter) String() string {
	return string(f)
}

// IsEmpty reports whether the filter carries no clauses.
func (f SetFilter) IsEmpty() bool {
	return f == ""
}

// Values splits the filter into query parameters, keeping clause order per
// key. Clauses without "=" become keys with an empty value.
func (f SetFilter) Values() url.Values {
	values := url.Values{}
	if f.IsEmpty() {
		return values
	}

	for _, clause := range strings.Split(string(f), SeparatorClause) {
		if clause == "" {
			continue
		}

		key, value, _ := strings.Cut(clause, SeparatorKeyValue)
		values.Add(key, value)
	}

	return values
}

// SetFilterBuilder accumulates constraints into a SetFilter.
//
//	filter := mtg.NewSetFilterBuilder().
//		Name("Khans of Tarkir").
//		Block("Khans of Tarkir").
//		Build()
//
// Clauses are emitted in the order they are added. Keys and values are not
// validated or escaped, and adding a key twice yields two clauses. A builder
// is single-use: once Build has been called every further call panics.
type SetFilterBuilder struct {
	filter   strings.Builder
	consumed bool
}

// NewSetFilterBuilder returns an empty builder.
func NewSetFilterBuilder() *SetFilterBuilder {
	return &SetFilterBuilder{}
}

// Custom adds an arbitrary key=value clause.
func (b *SetFilterBuilder) Custom(key, value string) *SetFilterBuilder {
	b.addFilter(key, value)

	return b
}

// Name matches every set whose name (partially) matches value.
func (b *SetFilterBuilder) Name(value string) *SetFilterBuilder {
	return b.Custom(SetFilterKeyName, value)
}

// Block matches every set whose block (partially) matches value.
func (b *SetFilterBuilder) Block(value string) *SetFilterBuilder {
	return b.Custom(SetFilterKeyBlock, value)
}

// AllOf adds a single clause whose values are joined with SeparatorAnd.
func (b *SetFilterBuilder) AllOf(key string, values ...string) *SetFilterBuilder {
	return b.Custom(key, strings.Join(values, SeparatorAnd))
}

// AnyOf adds a single clause whose values are joined with SeparatorOr.
func (b *SetFilterBuilder) AnyOf(key string, values ...string) *SetFilterBuilder {
	return b.Custom(key, strings.Join(values, SeparatorOr))
}

// Build returns the accumulated filter and consumes the builder.
func (b *SetFilterBuilder) Build() SetFilter {
	b.mustBeOpen()
	b.consumed = true

	return SetFilter(b.filter.String())
}

func (b *SetFilterBuilder) addFilter(key, value string) {
	b.mustBeOpen()

	if b.filter.Len() > 0 {
		b.filter.WriteString(SeparatorClause)
	}

	b.filter.WriteString(key)
	b.filter.WriteString(SeparatorKeyValue)
	b.filter.WriteString(value)
}

func (b *SetFilterBuilder) mustBeOpen() {
	if b.consumed {
		panic(fmt.Errorf("set filter builder: %w", ErrFilterBuilderConsumed))
	}
}
