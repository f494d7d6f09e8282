package docker

type PullProgressDetail struct {
	Current int
	Total   int
}

type PullProgress struct {
	Status         string
	ProgressDetail PullProgressDetail
	Progress       string
	ID             string
	Error          string
}

func (p PullProgress) String() string {
	if len(p.ID) > 0 {
		return p.ID + " " + p.Status + " " + p.Progress
	}

	return p.Status
}
