package teams

import (
	"fmt"
	"strings"

	"pgregory.net/rapid"

	"github.com/gravitrone/teamselect/internal/api"
)

func team(id int64, name string, parent ...int64) api.Team {
	t := api.Team{ID: id, Name: name}
	if len(parent) > 0 {
		p := parent[0]
		t.ParentID = &p
	}
	return t
}

// orgPayroll is the Org > Finance > Payroll chain.
func orgPayroll() []api.Team {
	return []api.Team{
		team(1, "Org"),
		team(2, "Finance", 1),
		team(3, "Payroll", 2),
	}
}

func sampleTeams() []api.Team {
	return []api.Team{
		team(1, "Department for Business"),
		team(2, "Corporate Finance", 1),
		team(3, "Payroll", 2),
		team(4, "Digital", 1),
		team(5, "New Corporate Tools", 4),
		team(6, "Refinance Unit", 4),
		team(7, "Finance Operations", 2),
	}
}

var nameWords = []string{"finance", "digital", "payroll", "ops", "data", "tools", "hr", "legal"}

// drawTeams generates a valid hierarchy: one root, every other team parented
// by a team created before it, emitted in a shuffled source order.
func drawTeams(t *rapid.T) []api.Team {
	n := rapid.IntRange(1, 30).Draw(t, "n")
	list := make([]api.Team, 0, n)
	for i := 0; i < n; i++ {
		words := rapid.SliceOfN(rapid.SampledFrom(nameWords), 1, 3).Draw(t, fmt.Sprintf("words%d", i))
		name := strings.Join(words, " ")
		id := int64(100 + i)
		if i == 0 {
			list = append(list, team(id, name))
			continue
		}
		parent := int64(100 + rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("parent%d", i)))
		list = append(list, team(id, name, parent))
	}
	return rapid.Permutation(list).Draw(t, "order")
}
