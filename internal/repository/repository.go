package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User     UserRepository
	Role     RoleRepository
	Menu     MenuRepository
	Online   *OnlineRepo
	LoginLog LoginLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Role:     NewRoleRepo(db),
		Menu:     NewMenuRepo(db),
		Online:   NewOnlineRepo(db),
		LoginLog: NewLoginLogRepo(db),
	}
}
