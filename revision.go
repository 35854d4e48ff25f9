package facet

import (
	"fmt"
	"slices"
	"time"

	"github.com/facetdb/facet/keyset"
)

// Options configure revision construction. The zero value stamps with the
// current wall clock and assigns crypto-random default qualifiers.
type Options struct {
	// TimestampMS is the single timestamp of the revision, in milliseconds.
	// Zero means "use Now".
	TimestampMS int64

	// Now substitutes the wall clock. Used when TimestampMS is zero.
	Now func() time.Time

	// NewQualifier substitutes the default qualifier source. It must return
	// tokens with no practical chance of colliding across processes.
	NewQualifier func() (string, error)
}

func (o Options) timestampMS() int64 {
	if o.TimestampMS != 0 {
		return o.TimestampMS
	}
	if o.Now != nil {
		return o.Now().UnixMilli()
	}
	return time.Now().UnixMilli()
}

func (o Options) newQualifier() (string, error) {
	if o.NewQualifier != nil {
		return o.NewQualifier()
	}
	return newQualifier()
}

// Revision is an immutable write batch: a set of components compiled into
// mutations that all share one timestamp. Build one with NewRevision, apply
// the output of Mutations in order.
type Revision struct {
	timestampMS int64
	components  []Component
}

// NewRevision validates families and resolves defaults, then freezes the
// result. Qualifiers left empty are assigned here, exactly once, so repeated
// Mutations calls return identical output and the body and manifest entries
// of a component always pair up. Fails if a component type or view family
// starts with MetadataPrefix, or if the qualifier source fails.
func NewRevision(components []Component, o Options) (*Revision, error) {
	rev := &Revision{
		timestampMS: o.timestampMS(),
		components:  make([]Component, len(components)),
	}
	for i, c := range components {
		if IsMetadataFamily(c.Type) {
			return nil, fmt.Errorf("%w: component %d type %q", ErrReservedFamily, i, c.Type)
		}
		if c.Qualifier == "" {
			q, err := o.newQualifier()
			if err != nil {
				return nil, err
			}
			c.Qualifier = q
		}
		c.Views = slices.Clone(c.Views)
		for j := range c.Views {
			v := &c.Views[j]
			if IsMetadataFamily(v.Family) {
				return nil, fmt.Errorf("%w: component %d view %d family %q", ErrReservedFamily, i, j, v.Family)
			}
			if v.Qualifier == "" {
				q, err := o.newQualifier()
				if err != nil {
					return nil, err
				}
				v.Qualifier = q
			}
		}
		rev.components[i] = c
	}
	return rev, nil
}

// TimestampMS returns the timestamp every mutation of this revision carries.
func (rev *Revision) TimestampMS() int64 {
	return rev.timestampMS
}

// Components returns the components with all defaults resolved, in input
// order. The result is a copy.
func (rev *Revision) Components() []Component {
	components := slices.Clone(rev.components)
	for i := range components {
		components[i].Views = slices.Clone(components[i].Views)
	}
	return components
}

// Mutations compiles the revision. Per component, in input order: one put
// per view in view order, then the component body, then the component's
// metadata entry whose value is the encoded key set of everything the
// component wrote, the metadata key itself included. Apply order matters:
// the manifest lands last, after the entries it describes.
func (rev *Revision) Mutations() []Mutation {
	var muts []Mutation
	for _, c := range rev.components {
		body := Mutation{
			Row:         c.DocID,
			Family:      c.Type,
			Qualifier:   c.Qualifier,
			Visibility:  c.Visibility,
			TimestampMS: rev.timestampMS,
			Value:       c.Content,
		}
		meta := Mutation{
			Row:         c.DocID,
			Family:      MetadataFamily(c.Type),
			Qualifier:   c.Qualifier,
			Visibility:  c.Visibility,
			TimestampMS: rev.timestampMS,
		}

		keys := make([]keyset.Key, 0, len(c.Views)+2)
		for _, v := range c.Views {
			m := Mutation{
				Row:         v.LookupTerm,
				Family:      v.Family,
				Qualifier:   v.Qualifier,
				Visibility:  v.Visibility,
				TimestampMS: rev.timestampMS,
				Value:       v.Value,
			}
			muts = append(muts, m)
			keys = append(keys, m.Key())
		}
		keys = append(keys, body.Key(), meta.Key())
		meta.Value = keyset.Encode(keys)

		muts = append(muts, body, meta)
	}
	return muts
}
