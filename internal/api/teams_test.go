package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamSelectPayload = `[
	{"team_id": 1, "team_name": "Org", "parent_id": null, "parent_name": null},
	{"team_id": 2, "team_name": "Finance", "parent_id": 1, "parent_name": "Org"},
	{"team_id": 3, "team_name": "Payroll", "parent_id": 2, "parent_name": "Finance"}
]`

func TestListTeamsDecodesPayload(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/peoplefinder/api/team-select", r.URL.Path)
		w.Write([]byte(teamSelectPayload))
	})

	teams, err := client.ListTeams("")
	require.NoError(t, err)
	require.Len(t, teams, 3)

	assert.Equal(t, int64(1), teams[0].ID)
	assert.Equal(t, "Org", teams[0].Name)
	assert.True(t, teams[0].IsRoot())
	assert.Nil(t, teams[0].ParentName)

	require.NotNil(t, teams[2].ParentID)
	assert.Equal(t, int64(2), *teams[2].ParentID)
	require.NotNil(t, teams[2].ParentName)
	assert.Equal(t, "Finance", *teams[2].ParentName)
	assert.False(t, teams[2].IsRoot())
}

func TestListTeamsCustomPath(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/custom/teams", r.URL.Path)
		w.Write([]byte(`[]`))
	})

	teams, err := client.ListTeams("custom/teams")
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestListTeamsMalformedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	})

	_, err := client.ListTeams("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestListTeamsUnicodeNames(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"team_id": 7, "team_name": "Équipe Öffentlichkeit", "parent_id": null, "parent_name": null}]`))
	})

	teams, err := client.ListTeams("")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Équipe Öffentlichkeit", teams[0].Name)
}

func TestListTeamsConcurrentCalls(t *testing.T) {
	var count atomic.Int32
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Write([]byte(teamSelectPayload))
	})

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ListTeams("")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}
	// The client itself does not deduplicate; that is the cache's job.
	assert.Equal(t, int32(workers), count.Load())
}
