package cli

import (
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/path"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func parsePathArg(s string) ([]path.Directive, error) {
	return path.Parse(s)
}

func getAt(root value.V, directives []path.Directive) (value.V, bool) {
	return path.Get(root, directives)
}
