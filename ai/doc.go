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


// Package ai provides the abstraction for the embedding service used by
// ontonote.
//
// The core never computes embeddings itself: it consumes fixed-length
// numeric vectors produced by an external provider behind the Embedder
// interface. An embedding failure is treated by callers as "no embedding
// available": the note simply stays out of similarity ranking.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEmbedder) return the interface type to
// enforce abstraction; mock constructors return concrete types to enable
// test assertions and behavior injection.
package ai
