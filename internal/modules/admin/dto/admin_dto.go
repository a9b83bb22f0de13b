package dto

import "anoa.com/freelancehub/internal/entity"

type ChangeRoleInput struct {
	Role string `json:"role" form:"role" binding:"required,oneof=client freelancer admin"`
}

type StatisticsResponse struct {
	TotalClients     int64 `json:"total_clients"`
	TotalFreelancers int64 `json:"total_freelancers"`
	TotalAdmins      int64 `json:"total_admins"`
	TotalProjects    int64 `json:"total_projects"`
}

type UserListResponse struct {
	Data []*entity.User `json:"data"`
}
