// Copyright 2025 Poiesic Systems
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


// Package search provides the note filtering and ranking engine.
//
// The Engine type combines three signals over the note collection:
//   - Tag filtering with semantic expansion through the concept ontology
//   - Free-text substring matching against title and content
//   - Embedding-similarity ranking using cosine distance
//
// A combined query applies the tag filter first, then the text filter, and
// orders the result pinned-first, then most recently updated. Similarity
// ranking is a separate, explicitly-triggered mode that replaces recency
// ordering and always operates over the full collection.
package search
