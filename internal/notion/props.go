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

// Props is a page's property map in the store's create-page JSON shape.
type Props map[string]interface{}

// Title builds a title property value.
func Title(text string) interface{} {
	return map[string]interface{}{
		"title": []interface{}{textBlock(text)},
	}
}

// RichText builds a rich_text property value.
func RichText(text string) interface{} {
	return map[string]interface{}{
		"rich_text": []interface{}{textBlock(text)},
	}
}

// Select builds a select property value.
func Select(value string) interface{} {
	return map[string]interface{}{
		"select": map[string]interface{}{"name": value},
	}
}

// MultiSelect builds a multi_select property value.
func MultiSelect(values []string) interface{} {
	opts := make([]interface{}, 0, len(values))
	for _, v := range values {
		opts = append(opts, map[string]interface{}{"name": v})
	}
	return map[string]interface{}{"multi_select": opts}
}

// Date builds a date property value with start and optional end, both in
// RFC 3339 or date-only form.
func Date(start, end string) interface{} {
	d := map[string]interface{}{"start": start}
	if end != "" {
		d["end"] = end
	}
	return map[string]interface{}{"date": d}
}

// Number builds a number property value.
func Number(n int) interface{} {
	return map[string]interface{}{"number": n}
}

// URL builds a url property value.
func URL(u string) interface{} {
	return map[string]interface{}{"url": u}
}

// Checkbox builds a checkbox property value.
func Checkbox(checked bool) interface{} {
	return map[string]interface{}{"checkbox": checked}
}

// Relation builds a relation property value pointing at the given page IDs.
func Relation(pageIDs ...string) interface{} {
	refs := make([]interface{}, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, map[string]interface{}{"id": id})
	}
	return map[string]interface{}{"relation": refs}
}

func textBlock(text string) map[string]interface{} {
	return map[string]interface{}{
		"text": map[string]interface{}{"content": text},
	}
}
