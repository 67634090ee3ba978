// Copyright 2025 Gabriel Ramos
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


// Package search provides semantic retrieval over the chunk index.
//
// The Searcher type embeds a query, runs a vector similarity search over
// the stored chunks and applies a verbatim keyword boost with stop-word
// filtering tuned for Portuguese legal text. Results are ranked by score
// and capped at the caller's limit.
package search
