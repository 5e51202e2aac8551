package repositoryImp

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fert/entities"
	"fert/pkg/weather/repository"
)

type weatherRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.WeatherRepository { return &weatherRepo{db} }

func (r *weatherRepo) Save(o *entities.WeatherObservation) error { return r.db.Create(o).Error }

func (r *weatherRepo) Latest(city string, since time.Time) (*entities.WeatherObservation, error) {
	var o entities.WeatherObservation
	err := r.db.Where("city = ? AND fetched_at >= ?", city, since.UTC()).Order("fetched_at DESC").First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
