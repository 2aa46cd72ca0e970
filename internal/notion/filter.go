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

package notion

// Filter is a composable query filter in the document store's JSON shape.
// Leaves are (property, operator, value) triples; And/Or nest arbitrarily.
type Filter map[string]interface{}

// DateEquals matches pages whose date property equals the given day
// ("2006-01-02"). The store compares the date portion only.
func DateEquals(property, date string) Filter {
	return Filter{
		"property": property,
		"date":     map[string]interface{}{"equals": date},
	}
}

// SelectEquals matches pages whose select property has the given value.
func SelectEquals(property, value string) Filter {
	return Filter{
		"property": property,
		"select":   map[string]interface{}{"equals": value},
	}
}

// And combines filters conjunctively.
func And(filters ...Filter) Filter {
	return Filter{"and": filters}
}

// Or combines filters disjunctively.
func Or(filters ...Filter) Filter {
	return Filter{"or": filters}
}
