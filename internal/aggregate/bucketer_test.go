package aggregate

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/avoronova/tally/internal/domain"
	"github.com/avoronova/tally/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(executor, date, tod string) importer.Row {
	return importer.Row{Executor: executor, Date: date, Time: tod}
}

func salesDirectory() *domain.Directory {
	return &domain.Directory{Groups: []domain.Group{
		{ID: "g-sales", Name: "Sales", Members: []domain.Member{
			{FirstName: "Anna", LastName: "Petrova"},
			{FirstName: "Ivan", LastName: "Sidorov"},
		}},
	}}
}

func TestBuild_SameWindowRowsShareOneSlot(t *testing.T) {
	rows := []importer.Row{
		row("Anna Petrova", "2025-03-01", "09:02"),
		row("Anna Petrova", "2025-03-01", "09:06"),
	}

	b := Build(rows, nil)

	users := b.Users()
	require.Len(t, users, 1)
	assert.Equal(t, domain.SlotMap{"09:00": 2}, users[0].Slots)
	assert.Equal(t, 10, users[0].Duration())
	assert.Empty(t, b.Groups())
}

func TestBuild_MirrorsIntoGroupAggregate(t *testing.T) {
	rows := []importer.Row{
		row("Anna Petrova", "2025-03-01", "09:02"),
		row("Ivan Sidorov", "2025-03-01", "09:07"),
		row("Anna Petrova", "2025-03-01", "14:31"),
	}

	b := Build(rows, salesDirectory())

	require.Len(t, b.Users(), 2)
	groups := b.Groups()
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, domain.KindGroup, g.Kind)
	assert.Equal(t, "g-sales", g.GroupID)
	assert.Equal(t, "Sales", g.Name)
	// Both members' 09:0x actions land in the group's 09:00 slot.
	assert.Equal(t, domain.SlotMap{"09:00": 2, "14:30": 1}, g.Slots)
	assert.Equal(t, 20, g.Duration())
}

func TestBuild_UnknownExecutorHasNoGroupSideEffect(t *testing.T) {
	rows := []importer.Row{row("Stranger Person", "2025-03-01", "10:00")}

	b := Build(rows, salesDirectory())

	require.Len(t, b.Users(), 1)
	assert.Empty(t, b.Groups())
}

func TestBuild_SplitsByDate(t *testing.T) {
	rows := []importer.Row{
		row("Anna Petrova", "2025-03-01", "09:00"),
		row("Anna Petrova", "2025-03-02", "09:00"),
	}

	b := Build(rows, salesDirectory())

	assert.Len(t, b.Users(), 2)
	assert.Len(t, b.Groups(), 2)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, b.Dates())
}

// TestBuild_GroupCountNeverBelowMemberCount property-tests that a group's
// per-slot count is at least any single member's count for the same slot.
func TestBuild_GroupCountNeverBelowMemberCount(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	members := []string{"Anna Petrova", "Ivan Sidorov"}

	for trial := 0; trial < 50; trial++ {
		var rows []importer.Row
		for i := 0; i < rng.Intn(40)+1; i++ {
			rows = append(rows, row(
				members[rng.Intn(len(members))],
				"2025-03-01",
				fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60)),
			))
		}

		b := Build(rows, salesDirectory())
		groups := b.Groups()
		require.Len(t, groups, 1, "trial %d", trial)

		for _, u := range b.Users() {
			for slot, count := range u.Slots {
				assert.GreaterOrEqual(t, groups[0].Slots[slot], count,
					"trial %d: group slot %s must cover member %s", trial, slot, u.Name)
			}
		}
	}
}

func TestBuild_NilDirectory(t *testing.T) {
	b := Build([]importer.Row{row("Anna Petrova", "2025-03-01", "09:00")}, nil)
	require.Len(t, b.Users(), 1)
	assert.Empty(t, b.Groups())
}

func TestBuild_SkipsUnroundableTime(t *testing.T) {
	b := Build([]importer.Row{
		row("Anna Petrova", "2025-03-01", "09:00"),
		row("Anna Petrova", "2025-03-01", "xx:yy"),
	}, nil)

	users := b.Users()
	require.Len(t, users, 1)
	assert.Equal(t, domain.SlotMap{"09:00": 1}, users[0].Slots)
}
