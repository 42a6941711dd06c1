package api

// DefaultBaseURL is the single source of truth for the CLI API target.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTeamsPath is where People Finder serves the flat team list.
const DefaultTeamsPath = "/peoplefinder/api/team-select"
