// Copyright (c) 2026 CampusCal Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import "github.com/campuscal/eventsync/internal/schema"

// Vocabulary holds the closed value sets extracted once from the database
// snapshot's select options. Membership checks go through these predicates
// so the "what counts as a valid value" contract lives in one place.
type Vocabulary struct {
	eventTypes    map[string]bool
	organizations map[string]bool
	locations     map[string]bool
	tokenGroups   map[string]bool
}

// NewVocabulary extracts the closed sets from the snapshot. Missing
// properties yield empty sets, which the guard will have flagged anyway.
func NewVocabulary(snap *schema.DatabaseSnapshot) *Vocabulary {
	return &Vocabulary{
		eventTypes:    optionSet(snap, PropType),
		organizations: optionSet(snap, PropOrganizations),
		locations:     optionSet(snap, PropLocation),
		tokenGroups:   optionSet(snap, PropTokenGroup),
	}
}

func optionSet(snap *schema.DatabaseSnapshot, property string) map[string]bool {
	set := make(map[string]bool)
	if p := snap.Property(property); p != nil {
		for _, o := range p.Options {
			set[o] = true
		}
	}
	return set
}

// IsEventType reports whether s is a known event type.
func (v *Vocabulary) IsEventType(s string) bool { return v.eventTypes[s] }

// IsOrganization reports whether s is a known organization.
func (v *Vocabulary) IsOrganization(s string) bool { return v.organizations[s] }

// IsLocation reports whether s is a known venue enum member.
func (v *Vocabulary) IsLocation(s string) bool { return v.locations[s] }

// IsTokenGroup reports whether s is a known hosting team.
func (v *Vocabulary) IsTokenGroup(s string) bool { return v.tokenGroups[s] }
