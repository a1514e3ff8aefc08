package release

import "context"

type MockPublisher struct {
	ErrorValue error
	Calls      []*CreateOptions
}

func (m *MockPublisher) CreateRelease(ctx context.Context, o *CreateOptions) (*Entity, error) {
	m.Calls = append(m.Calls, o)
	if m.ErrorValue != nil {
		return nil, m.ErrorValue
	}

	return &Entity{
		ID:      1,
		TagName: o.TagName,
		Name:    o.Name,
		URL:     "https://github.com/" + o.Repository.FullName() + "/releases/tag/" + o.TagName,
	}, nil
}

type MockNotifier struct {
	ErrorValue error
	Calls      []*PostOptions
}

func (m *MockNotifier) Post(ctx context.Context, o *PostOptions) error {
	m.Calls = append(m.Calls, o)

	return m.ErrorValue
}
