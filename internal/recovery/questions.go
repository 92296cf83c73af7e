package recovery

import (
	"fmt"
	"math/rand/v2"

	"github.com/AlexZinkM/local-vault/internal/model"
)

// Catalog is the fixed set of security questions. Identifiers are stable and
// persisted; never renumber or reuse them.
var Catalog = []model.Question{
	{ID: "childhood_pet", Text: "What was the name of your first pet?"},
	{ID: "birth_city", Text: "In what city were you born?"},
	{ID: "mother_maiden", Text: "What is your mother's maiden name?"},
	{ID: "first_school", Text: "What was the name of your first school?"},
	{ID: "favorite_teacher", Text: "What was the name of your favorite teacher?"},
	{ID: "first_car", Text: "What was the make of your first car?"},
	{ID: "childhood_friend", Text: "What was the name of your childhood best friend?"},
	{ID: "street_grew_up", Text: "What street did you grow up on?"},
}

// LookupQuestion returns the catalog entry for id.
func LookupQuestion(id string) (model.Question, bool) {
	for _, q := range Catalog {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// RandomQuestions returns n distinct catalog questions in random order.
func RandomQuestions(n int) ([]model.Question, error) {
	if n < 0 || n > len(Catalog) {
		return nil, fmt.Errorf("%w: %d questions requested, catalog has %d", ErrInvalidCount, n, len(Catalog))
	}

	out := make([]model.Question, 0, n)
	for _, i := range rand.Perm(len(Catalog))[:n] {
		out = append(out, Catalog[i])
	}
	return out, nil
}
