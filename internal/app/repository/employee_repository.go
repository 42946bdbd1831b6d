package repository

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	FindAll() ([]model.Employee, error)
	FindByDepartment(department string) ([]model.Employee, error)
	FindByEmail(email string) (*model.Employee, error)
	SearchByName(query string) ([]model.Employee, error)
	FindDepartmentRates() ([]model.DepartmentReferralRate, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindAll() ([]model.Employee, error) {
	logger.Debug("Finding all employees in database")

	// 직급 순위 내림차순: 승인자 추천 목록이 상위 직급부터 나오도록
	var employees []model.Employee
	if err := r.db.Order("position_level DESC, name ASC").Find(&employees).Error; err != nil {
		logger.Error("Failed to find employees in database", err)
		return nil, err
	}

	logger.Debug("Employees found in database", map[string]interface{}{
		"count": len(employees),
	})
	return employees, nil
}

func (r *employeeRepository) FindByDepartment(department string) ([]model.Employee, error) {
	logger.Debug("Finding employees by department in database", map[string]interface{}{
		"department": department,
	})

	var employees []model.Employee
	if err := r.db.Where("department = ?", department).
		Order("position_level DESC, name ASC").
		Find(&employees).Error; err != nil {
		logger.Error("Failed to find employees by department in database", err, map[string]interface{}{
			"department": department,
		})
		return nil, err
	}

	logger.Debug("Employees found by department in database", map[string]interface{}{
		"department": department,
		"count":      len(employees),
	})
	return employees, nil
}

func (r *employeeRepository) FindByEmail(email string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.Where("email = ?", email).First(&employee).Error; err != nil {
		logger.Error("Failed to find employee by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) SearchByName(query string) ([]model.Employee, error) {
	logger.Debug("Searching employees by name in database", map[string]interface{}{
		"query": query,
	})

	var employees []model.Employee
	if err := r.db.Where("name LIKE ? OR email LIKE ?", "%"+query+"%", "%"+query+"%").
		Order("position_level DESC, name ASC").
		Find(&employees).Error; err != nil {
		logger.Error("Failed to search employees by name in database", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	logger.Debug("Employees found by name search in database", map[string]interface{}{
		"query": query,
		"count": len(employees),
	})
	return employees, nil
}

func (r *employeeRepository) FindDepartmentRates() ([]model.DepartmentReferralRate, error) {
	var rates []model.DepartmentReferralRate
	if err := r.db.Order("department ASC").Find(&rates).Error; err != nil {
		logger.Error("Failed to find department referral rates in database", err)
		return nil, err
	}
	return rates, nil
}
