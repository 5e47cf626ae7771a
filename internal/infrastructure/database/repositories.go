package database

import (
	"github.com/wekeepgrowing/semo-payment-method/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/semo-payment-method/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	ProvisioningAttempt domainRepo.ProvisioningAttemptRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		ProvisioningAttempt: repository.NewProvisioningAttemptRepository(db, logger),
	}
}
