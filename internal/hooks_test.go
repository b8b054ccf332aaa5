package internal_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/internal"
	"github.com/dmitrymomot/cms/pkg/column"
	"github.com/dmitrymomot/cms/pkg/rules"
)

func TestDefaultHooksAreIdentity(t *testing.T) {
	t.Parallel()

	h, err := internal.DefaultHooks(internal.NoHooks[Article]())
	require.NoError(t, err)

	ctx := context.Background()
	a := Article{ID: column.NewUUID(), Title: "A", Views: 1}
	b := Article{ID: a.ID, Title: "B", Views: 2}

	got, err := h.OnCreate(ctx, a, internal.NoExt{})
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = h.OnUpdate(ctx, a, b, internal.NoExt{})
	require.NoError(t, err)
	assert.Equal(t, b, got)

	got, err = h.OnDelete(ctx, a, internal.NoExt{})
	require.NoError(t, err)
	assert.Equal(t, a, got)

	ext, err := h.Extract(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, internal.NoExt{}, ext)
}

func TestHooksNeedExtractor(t *testing.T) {
	t.Parallel()

	type user struct{ ID string }

	h, err := internal.DefaultHooks(internal.Hooks[Article, user]{})
	require.ErrorIs(t, err, internal.ErrNoExtractor)
	assert.NotNil(t, h.OnCreate, "other hooks are still filled")
}

func TestHooksWithRules(t *testing.T) {
	t.Parallel()

	schema := articleSchema()
	set := rules.MustCompile(
		rules.Rule{Name: "title", Expr: `record.title == ""`, Message: "title is required"},
		rules.Rule{Name: "views", Expr: `record.views < old.views`, Message: "views cannot go down", On: []rules.Action{rules.Update}},
		rules.Rule{Name: "draft", Expr: `record.published`, Message: "unpublish first", On: []rules.Action{rules.Delete}},
	)

	var calls int
	h := internal.Hooks[Article, internal.NoExt]{
		OnCreate: func(_ context.Context, a Article, _ internal.NoExt) (Article, error) {
			calls++
			a.Title = column.Text(string(a.Title) + "!")
			return a, nil
		},
	}.WithRules(&schema, set)

	ctx := context.Background()

	got, err := h.OnCreate(ctx, Article{Title: "Hi"}, internal.NoExt{})
	require.NoError(t, err)
	assert.Equal(t, column.Text("Hi!"), got.Title, "rules see the inner hook's result")

	h2 := internal.NoHooks[Article]().WithRules(&schema, set)
	_, err = h2.OnCreate(ctx, Article{}, internal.NoExt{})
	require.ErrorIs(t, err, rules.ErrViolated)

	_, err = h2.OnUpdate(ctx, Article{Title: "x", Views: 5}, Article{Title: "x", Views: 4}, internal.NoExt{})
	var v *rules.Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, []string{"views cannot go down"}, v.Messages)

	_, err = h2.OnDelete(ctx, Article{Title: "x", Published: true}, internal.NoExt{})
	require.ErrorIs(t, err, rules.ErrViolated)

	_, err = h2.OnDelete(ctx, Article{Title: "x"}, internal.NoExt{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRulesEvaluationFailureIsServerError(t *testing.T) {
	t.Parallel()

	schema := articleSchema()
	broken := rules.MustCompile(rules.Rule{Name: "views", Expr: `len(record.views) > 0`})
	h := internal.NoHooks[Article]().WithRules(&schema, broken)

	_, err := h.OnCreate(context.Background(), Article{Title: "x"}, internal.NoExt{})
	require.ErrorIs(t, err, rules.ErrEvaluate)
	he := internal.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fine := internal.NoHooks[Article]().WithRules(&schema, mustRules(t))
	_, err = fine.OnUpdate(ctx, Article{Title: "x"}, Article{Title: "x"}, internal.NoExt{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, http.StatusInternalServerError, internal.AsHTTPError(err).Code)
}

func TestWithRulesEmptySetKeepsHooks(t *testing.T) {
	t.Parallel()

	schema := articleSchema()
	h := internal.NoHooks[Article]().WithRules(&schema, nil)
	assert.Nil(t, h.OnCreate)
}
