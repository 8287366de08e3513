package seeder

import (
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/armadaproject/cmsbench/internal/common/util"
	"github.com/armadaproject/cmsbench/pkg/client/domain"
)

// Faker synthesises records whose shape is fixed and whose content is random.
// It is not safe for concurrent use.
type Faker struct {
	faker *gofakeit.Faker
	rand  *rand.Rand
	clock util.Clock
}

func NewFaker(seed int64, clock util.Clock) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
		rand:  rand.New(rand.NewSource(seed)),
		clock: clock,
	}
}

func (f *Faker) Author() domain.Author {
	return domain.Author{
		Name:    f.faker.Name(),
		Email:   f.faker.Email(),
		Bio:     f.paragraphs(1),
		Twitter: "@" + f.faker.Username(),
	}
}

// Article fills in text and a publish date within the year before now; relations are supplied by the caller.
func (f *Faker) Article(author domain.Id, tags []domain.Id) domain.Article {
	now := f.clock.Now()
	return domain.Article{
		Title:       f.faker.Sentence(8),
		Content:     f.paragraphs(5),
		Excerpt:     f.paragraphs(1),
		PublishDate: f.faker.DateRange(now.AddDate(-1, 0, 0), now).UTC(),
		Author:      author,
		Tags:        tags,
	}
}

// PickOne returns an element of ids chosen uniformly at random. ids must not be empty.
func (f *Faker) PickOne(ids []domain.Id) domain.Id {
	return ids[f.rand.Intn(len(ids))]
}

// PickSome returns between 1 and max distinct elements of ids, fewer if ids is shorter.
func (f *Faker) PickSome(ids []domain.Id, max int) []domain.Id {
	if len(ids) == 0 {
		return []domain.Id{}
	}
	if max < 1 {
		max = 1
	}
	if max > len(ids) {
		max = len(ids)
	}
	n := f.rand.Intn(max) + 1
	picked := make([]domain.Id, 0, n)
	for _, i := range f.rand.Perm(len(ids))[:n] {
		picked = append(picked, ids[i])
	}
	return picked
}

func (f *Faker) paragraphs(n int) string {
	return f.faker.Paragraph(n, 4, 12, "\n\n")
}
