package linear

const usersQuery = `query Users($after: String) {
  users(first: 100, after: $after) {
    nodes { id name active }
    pageInfo { hasNextPage endCursor }
  }
}`

const labelsQuery = `query Labels($after: String) {
  issueLabels(first: 100, after: $after) {
    nodes { id name team { id } }
    pageInfo { hasNextPage endCursor }
  }
}`

const createLabelMutation = `mutation CreateLabel($input: IssueLabelCreateInput!) {
  issueLabelCreate(input: $input) {
    success
    issueLabel { id name }
  }
}`

const createIssueMutation = `mutation CreateIssue($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue { id identifier url }
  }
}`

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type usersResponse struct {
	Users struct {
		Nodes []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Active bool   `json:"active"`
		} `json:"nodes"`
		PageInfo pageInfo `json:"pageInfo"`
	} `json:"users"`
}

type labelsResponse struct {
	IssueLabels struct {
		Nodes []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Team *struct {
				ID string `json:"id"`
			} `json:"team"`
		} `json:"nodes"`
		PageInfo pageInfo `json:"pageInfo"`
	} `json:"issueLabels"`
}

type createLabelResponse struct {
	IssueLabelCreate struct {
		Success    bool `json:"success"`
		IssueLabel *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"issueLabel"`
	} `json:"issueLabelCreate"`
}

type createIssueResponse struct {
	IssueCreate struct {
		Success bool `json:"success"`
		Issue   *struct {
			ID         string `json:"id"`
			Identifier string `json:"identifier"`
			URL        string `json:"url"`
		} `json:"issue"`
	} `json:"issueCreate"`
}

// issueInput mirrors IssueCreateInput. Optional ids are omitted when empty.
type issueInput struct {
	TeamID      string   `json:"teamId"`
	ProjectID   string   `json:"projectId,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LabelIDs    []string `json:"labelIds,omitempty"`
	AssigneeID  string   `json:"assigneeId,omitempty"`
}

type labelInput struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	TeamID string `json:"teamId,omitempty"`
}
