package repository

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{db: db.DB}
}

func (r *TemplateRepository) Create(template *model.ShiftTemplate) error {
	return r.db.Create(template).Error
}

func (r *TemplateRepository) FindByID(templateID int64) (*model.ShiftTemplate, error) {
	var template model.ShiftTemplate
	err := r.db.First(&template, templateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) FindCalendarTemplates(calendarID int64) ([]model.ShiftTemplate, error) {
	var templates []model.ShiftTemplate
	err := r.db.Where("calendar_id = ?", calendarID).
		Order("created_at ASC").
		Find(&templates).Error
	return templates, err
}

// 删除模板并解绑其班次：清掉template_id，
// 同时把模板当前的color_class复制到班次上，保持显示效果不变。
func (r *TemplateRepository) DeleteWithDetach(templateID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var template model.ShiftTemplate
		if err := tx.First(&template, templateID).Error; err != nil {
			return err
		}
		err := tx.Model(&model.Shift{}).
			Where("template_id = ?", templateID).
			Updates(map[string]interface{}{
				"template_id": nil,
				"color_class": template.ColorClass,
			}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&model.ShiftTemplate{}, templateID).Error
	})
}
