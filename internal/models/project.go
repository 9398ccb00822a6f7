package models

// EnvType identifies one of a project's deployment environments.
type EnvType int16

// Project environment types. The project row records which one is current.
const (
	EnvDev  EnvType = 0
	EnvTest EnvType = 1
	EnvProd EnvType = 2
	EnvMock EnvType = 3
)

// ProjectEnv is an environment entry for a project: the base URL api runs
// are issued against while that environment is current.
type ProjectEnv struct {
	ProjectID int64   `json:"project_id"`
	EnvType   EnvType `json:"env_type"`
	BaseURL   string  `json:"env_baseurl"`
}

// GlobalParamScope identifies where a project-wide parameter is injected.
type GlobalParamScope int16

// Global parameter scopes.
const (
	GlobalScopeHeader GlobalParamScope = 0
	GlobalScopeCookie GlobalParamScope = 1
	GlobalScopeQuery  GlobalParamScope = 2
)

// GlobalParam is a project-wide parameter merged into every api run.
type GlobalParam struct {
	ID         int64            `json:"param_id"`
	ProjectID  int64            `json:"project_id"`
	Scope      GlobalParamScope `json:"father_type"`
	ParamName  string           `json:"param_name"`
	ParamType  int16            `json:"param_type"`
	ParamValue string           `json:"param_value"`
	ParamDesc  string           `json:"param_desc"`
}

// User is the minimal identity record the auth boundary resolves tokens to.
type User struct {
	ID     int64  `json:"user_id"`
	Name   string `json:"username"`
	Avatar string `json:"avatar,omitempty"`
}
