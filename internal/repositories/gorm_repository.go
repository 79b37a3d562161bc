package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

type userRow struct {
	Code     int    `gorm:"primaryKey;autoIncrement:false"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"not null;index"`
	Password string `gorm:"not null"`
}

func (userRow) TableName() string {
	return "users"
}

func (u userRow) toModel() model.User {
	return model.User{Code: u.Code, Name: u.Name, Email: u.Email, Password: u.Password}
}

type logRow struct {
	ID             string               `gorm:"primaryKey;size:36"`
	TaskCode       int                  `gorm:"not null;index"`
	ChangeUserCode int                  `gorm:"not null"`
	Status         constants.TaskStatus `gorm:"not null"`
	ChangeDate     string               `gorm:"size:10;not null"`
	CreatedAt      time.Time
}

func (logRow) TableName() string {
	return "task_logs"
}

func (l logRow) toModel() (model.LogEntry, error) {
	date, err := time.Parse(constants.DateLayout, l.ChangeDate)
	if err != nil {
		return model.LogEntry{}, fmt.Errorf("error parsing change date %q of log %s: %w", l.ChangeDate, l.ID, err)
	}
	return model.LogEntry{
		TaskCode:       l.TaskCode,
		ChangeUserCode: l.ChangeUserCode,
		Status:         l.Status,
		ChangeDate:     date,
	}, nil
}

// Migrate creates or updates the tables used by the gorm repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{}, &taskRow{}, &logRow{})
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order("code asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}

func (r *GormUserRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where(query, args...).Order("code asc").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	u := row.toModel()
	return &u, nil
}

func (r *GormUserRepository) FindByCode(ctx context.Context, code int) (*model.User, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *GormUserRepository) FindByEmailAndPassword(ctx context.Context, email, password string) (*model.User, error) {
	return r.first(ctx, "email = ? AND password = ?", email, password)
}

func (r *GormUserRepository) Save(ctx context.Context, user model.User) error {
	row := userRow{Code: user.Code, Name: user.Name, Email: user.Email, Password: user.Password}
	return r.db.WithContext(ctx).Create(&row).Error
}

type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) FindAllResolved(ctx context.Context) ([]model.TaskRecord, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Order("code asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.TaskRecord{}, nil
	}

	codes := make([]int, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.RepUserCode)
	}

	var userRows []userRow
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&userRows).Error; err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(userRows))
	for _, u := range userRows {
		users = append(users, u.toModel())
	}

	return resolveTasks(rows, users), nil
}

func (r *GormTaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	records, err := r.FindAllResolved(ctx)
	if err != nil {
		return nil, err
	}
	return loadedTasks(records), nil
}

func (r *GormTaskRepository) FindByCode(ctx context.Context, code int) (*model.Task, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).First(&row, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user userRow
	if err := r.db.WithContext(ctx).First(&user, "code = ?", row.RepUserCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &model.Task{
		Code:    row.Code,
		Name:    row.Name,
		Status:  row.Status,
		RepUser: user.toModel(),
	}, nil
}

func (r *GormTaskRepository) Save(ctx context.Context, task model.Task) error {
	row := newTaskRow(task)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormTaskRepository) Update(ctx context.Context, task model.Task) error {
	res := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("code = ?", task.Code).
		Updates(map[string]interface{}{
			"name":          task.Name,
			"status":        task.Status,
			"rep_user_code": task.RepUser.Code,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, code int) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&taskRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

type GormLogRepository struct {
	db *gorm.DB
}

func NewGormLogRepository(db *gorm.DB) *GormLogRepository {
	return &GormLogRepository{db: db}
}

func (r *GormLogRepository) find(ctx context.Context, query *gorm.DB) ([]model.LogEntry, error) {
	var rows []logRow
	if err := query.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *GormLogRepository) FindAll(ctx context.Context) ([]model.LogEntry, error) {
	return r.find(ctx, r.db)
}

func (r *GormLogRepository) FindByTaskCode(ctx context.Context, taskCode int) ([]model.LogEntry, error) {
	return r.find(ctx, r.db.Where("task_code = ?", taskCode))
}

func (r *GormLogRepository) Save(ctx context.Context, entry model.LogEntry) error {
	row := logRow{
		ID:             uuid.NewString(),
		TaskCode:       entry.TaskCode,
		ChangeUserCode: entry.ChangeUserCode,
		Status:         entry.Status,
		ChangeDate:     entry.ChangeDateString(),
		CreatedAt:      time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormLogRepository) DeleteByTaskCode(ctx context.Context, taskCode int) error {
	return r.db.WithContext(ctx).Where("task_code = ?", taskCode).Delete(&logRow{}).Error
}
