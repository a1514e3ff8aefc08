package paramutils

type MockFlagRepo struct {
	StringMap map[string]interface{}
}

func (fs *MockFlagRepo) GetStringOrDefault(flag, d string) string {
	if val, ok := fs.StringMap[flag]; ok {
		return val.(string)
	}

	return d
}

func (fs *MockFlagRepo) GetBoolOrDefault(flag string, d bool) bool {
	if val, ok := fs.StringMap[flag]; ok {
		return val.(bool)
	}

	return d
}
