// Package engine holds the blood-type compatibility table, the blood request
// lifecycle and the donor-side matching rules. Nothing in here talks to the
// network; storage is reached through the RequestStore and ResponseStore
// interfaces handed to New.
package engine

import (
	"fmt"
	"slices"

	"bloodlink/pkg/types"
)

// acceptedDonors maps a recipient type to every donor type it may receive.
// It is the only hand-written table; donorsToRecipients is derived from it.
var acceptedDonors = map[types.BloodType][]types.BloodType{
	types.BloodTypeAPos:  {types.BloodTypeAPos, types.BloodTypeANeg, types.BloodTypeOPos, types.BloodTypeONeg},
	types.BloodTypeANeg:  {types.BloodTypeANeg, types.BloodTypeONeg},
	types.BloodTypeBPos:  {types.BloodTypeBPos, types.BloodTypeBNeg, types.BloodTypeOPos, types.BloodTypeONeg},
	types.BloodTypeBNeg:  {types.BloodTypeBNeg, types.BloodTypeONeg},
	types.BloodTypeABPos: types.AllBloodTypes,
	types.BloodTypeABNeg: {types.BloodTypeANeg, types.BloodTypeBNeg, types.BloodTypeABNeg, types.BloodTypeONeg},
	types.BloodTypeOPos:  {types.BloodTypeOPos, types.BloodTypeONeg},
	types.BloodTypeONeg:  {types.BloodTypeONeg},
}

var donorsToRecipients = invert(acceptedDonors)

func invert(table map[types.BloodType][]types.BloodType) map[types.BloodType][]types.BloodType {
	out := make(map[types.BloodType][]types.BloodType, len(types.AllBloodTypes))
	for _, recipient := range types.AllBloodTypes {
		for _, donor := range table[recipient] {
			out[donor] = append(out[donor], recipient)
		}
	}
	return out
}

func validate(bt ...types.BloodType) error {
	for _, b := range bt {
		if !b.Valid() {
			return fmt.Errorf("%w: %q", types.ErrInvalidBloodType, string(b))
		}
	}
	return nil
}

// IsCompatible reports whether a donor of type donor can give to a recipient
// who needs type recipient.
func IsCompatible(recipient, donor types.BloodType) (bool, error) {
	if err := validate(recipient, donor); err != nil {
		return false, err
	}
	return slices.Contains(acceptedDonors[recipient], donor), nil
}

// CompatibleDonors returns the donor types a recipient can accept, in canonical order.
func CompatibleDonors(recipient types.BloodType) ([]types.BloodType, error) {
	if err := validate(recipient); err != nil {
		return nil, err
	}
	return ordered(acceptedDonors[recipient]), nil
}

// CompatibleRecipients returns the recipient types a donor can give to.
func CompatibleRecipients(donor types.BloodType) ([]types.BloodType, error) {
	if err := validate(donor); err != nil {
		return nil, err
	}
	return ordered(donorsToRecipients[donor]), nil
}

// ordered copies set and sorts it by types.AllBloodTypes so callers never share the table.
func ordered(set []types.BloodType) []types.BloodType {
	out := make([]types.BloodType, 0, len(set))
	for _, t := range types.AllBloodTypes {
		if slices.Contains(set, t) {
			out = append(out, t)
		}
	}
	return out
}

// compatible is IsCompatible for values already known to be valid.
func compatible(recipient, donor types.BloodType) bool {
	return slices.Contains(acceptedDonors[recipient], donor)
}
