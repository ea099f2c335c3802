// Package all imports all extractors for side-effect registration.
// Usage: _ "github.com/specvital/codelens/pkg/parser/strategies/all"
package all

import (
	_ "github.com/specvital/codelens/pkg/parser/strategies/javascript"
	_ "github.com/specvital/codelens/pkg/parser/strategies/python"
	_ "github.com/specvital/codelens/pkg/parser/strategies/typescript"
)
