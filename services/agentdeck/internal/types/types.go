package types

type AgentConfig struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	AvatarStorageId string `json:"avatarStorageId"`
	SpriteStorageId string `json:"spriteStorageId"`
	Status          string `json:"status"`
	Visibility      string `json:"visibility"`
}

type AgentResource struct {
	Level                int         `json:"level"`
	AgentConfig          AgentConfig `json:"agentConfig"`
	AgentAvatarStorageId string      `json:"agentAvatarStorageId"`
	AgentSpriteStorageId string      `json:"agentSpriteStorageId"`
}

type Game struct {
	GameId         string          `json:"gameId"`
	GameName       string          `json:"gameName"`
	AgentResources []AgentResource `json:"agentResources"`
	UpdatedAt      int64           `json:"updatedAt"`
}

type GameResponse struct {
	Game *Game `json:"game"`
}

type Agent struct {
	Id              uint   `json:"id"`
	Name            string `json:"name"`
	AgentId         string `json:"agentId"`
	Prompt          string `json:"prompt"`
	Description     string `json:"description"`
	AvatarStorageId string `json:"avatarStorageId"`
	SpriteStorageId string `json:"spriteStorageId"`
	Status          string `json:"status"`
	Visibility      string `json:"visibility"`
	Level           int    `json:"level"`
	CreatedAt       int64  `json:"createdAt"`
	UpdatedAt       int64  `json:"updatedAt"`
}

type AgentResponse struct {
	Agent *Agent `json:"agent"`
}

type AgentListResponse struct {
	Agents []Agent `json:"agents"`
}

type AgentIdRequest struct {
	Id uint `path:"id"`
}

type AgentByNameRequest struct {
	Name string `form:"name"`
}

type AgentCreateRequest struct {
	Name            string `json:"name"`
	Prompt          string `json:"prompt,optional"`
	Description     string `json:"description,optional"`
	AvatarStorageId string `json:"avatarStorageId"`
	SpriteStorageId string `json:"spriteStorageId"`
	Status          string `json:"status,default=active"`
	Visibility      string `json:"visibility,default=public"`
}

type AgentCreateResponse struct {
	Id uint `json:"id"`
}

type AgentUpdateRequest struct {
	Id              uint   `path:"id"`
	Prompt          string `json:"prompt,optional"`
	Description     string `json:"description,optional"`
	AvatarStorageId string `json:"avatarStorageId,optional"`
	SpriteStorageId string `json:"spriteStorageId,optional"`
	Status          string `json:"status,default=active"`
	Visibility      string `json:"visibility,default=public"`
}

type AgentUpgradeResponse struct {
	Id    uint `json:"id"`
	Level int  `json:"level"`
}

type GameSyncResponse struct {
	GameId string `json:"gameId"`
	Agents int    `json:"agents"`
}

type UploadURLResponse struct {
	Url string `json:"url"`
}

type UploadRequest struct {
	Ticket string `path:"ticket"`
}

type UploadResponse struct {
	StorageId string `json:"storageId"`
}

type FileURLRequest struct {
	StorageId string `form:"storageId"`
}

type FileURLResponse struct {
	Url *string `json:"url"`
}

type FileRequest struct {
	StorageId string `path:"storageId"`
}
