package github

import "time"

// Issue is a lazy handle on a single issue or pull request. It satisfies the
// source interface consumed by the history package while keeping all network
// access behind the rate-limited client.
type Issue struct {
	client    Client
	repoPath  string
	number    int
	updatedAt time.Time
}

// FetchIssue resolves the issue snapshot (number, last update time) and
// returns a handle for fetching its raw event sources.
func FetchIssue(client Client, repoPath string, number int) (*Issue, error) {
	data, err := client.GetIssue(repoPath, number)
	if err != nil {
		return nil, err
	}
	return &Issue{
		client:    client,
		repoPath:  repoPath,
		number:    number,
		updatedAt: data.UpdatedAt,
	}, nil
}

func (i *Issue) Number() int          { return i.number }
func (i *Issue) RepoPath() string     { return i.repoPath }
func (i *Issue) UpdatedAt() time.Time { return i.updatedAt }

func (i *Issue) Events() ([]TimelineEvent, error) {
	return i.client.GetEvents(i.repoPath, i.number)
}

func (i *Issue) Comments() ([]Comment, error) {
	return i.client.GetComments(i.repoPath, i.number)
}

func (i *Issue) Reactions() ([]Reaction, error) {
	return i.client.GetReactions(i.repoPath, i.number)
}

func (i *Issue) Reviews() ([]Review, error) {
	return i.client.GetReviews(i.repoPath, i.number)
}

func (i *Issue) Commits() ([]Commit, error) {
	return i.client.GetCommits(i.repoPath, i.number)
}
