// Package providers registers all AI provider factories via side effects.
package providers

import (
	_ "github.com/truthlens/truthlens/src/ai/gemini"
	_ "github.com/truthlens/truthlens/src/ai/openai"
)
