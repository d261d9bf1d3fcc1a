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


// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP endpoints via langchaingo.
//
// Both the embedder and the judge work with local inference servers
// (vLLM, Ollama, llama.cpp) as well as hosted APIs; authentication uses a
// placeholder token for servers that do not require one. Judge calls run
// in JSON mode at temperature zero and tolerate sloppy model output via a
// small JSON repair pass. Every call is bounded by the per-call timeout
// in ai.Config.
package openai
