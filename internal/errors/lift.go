package errors

import (
	stderrors "errors"
	"strings"

	"github.com/vango-dev/folio/internal/content"
	"github.com/vango-dev/folio/pkg/router"
	"github.com/vango-dev/folio/pkg/ssg"
)

// Lift converts the typed errors returned by the library packages into a
// coded FolioError. It returns nil for nil and for errors it does not
// recognize.
func Lift(err error) *FolioError {
	if err == nil {
		return nil
	}

	var fe *FolioError
	if stderrors.As(err, &fe) {
		return fe
	}

	var (
		discoveryErr  *router.DiscoveryError
		validationErr *router.MultiValidationError
		missingErr    *ssg.MissingGeneratorError
		generatorErr  *ssg.GeneratorError
		bindingErr    *ssg.BindingError
		renderErr     *ssg.RenderError
		documentErr   *content.DocumentError
	)

	switch {
	case stderrors.As(err, &discoveryErr):
		lifted := New("E100").Wrap(err)
		if discoveryErr.File != "" {
			lifted.WithFile(discoveryErr.File)
		}
		return lifted

	case stderrors.As(err, &validationErr):
		var b strings.Builder
		for _, ve := range validationErr.Errors {
			b.WriteString(router.FormatValidationError(ve))
		}
		return New("E101").
			WithDetail(strings.TrimRight(b.String(), "\n")).
			WithSuggestion("Rename or remove one of the conflicting pages")

	case stderrors.As(err, &missingErr):
		return New("E110").
			WithFile(missingErr.File).
			WithRoute(missingErr.Route).
			WithDetail("The route has dynamic segments, so its paths cannot be listed without a generator.").
			WithSuggestion("Register a StaticParams export for the page").
			WithExample(`"blog/[slug]/page.html": {
    StaticParams: func(ctx context.Context) ([]router.Params, error) {
        return []router.Params{{"slug": router.One("hello")}}, nil
    },
},`)

	case stderrors.As(err, &generatorErr):
		return New("E111").
			WithFile(generatorErr.File).
			WithRoute(generatorErr.Route).
			Wrap(generatorErr.Err)

	case stderrors.As(err, &bindingErr):
		return New("E112").
			WithFile(bindingErr.File).
			WithRoute(bindingErr.Route).
			WithRecord(bindingErr.Index).
			WithSuggestion("Return non-empty values that are usable as path segments").
			Wrap(bindingErr.Err)

	case stderrors.As(err, &renderErr):
		return New("E130").
			WithDetail("While rendering " + renderErr.Path).
			Wrap(renderErr.Err)

	case stderrors.As(err, &documentErr):
		return New("E125").
			WithLocation(documentErr.File, documentErr.Line, 0).
			Wrap(documentErr.Err)
	}

	return nil
}
