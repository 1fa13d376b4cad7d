package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/models"
)

var defaultServices = []models.Service{
	{Name: "Corte Masculino", Price: "R$ 50,00", Duration: "45 min", Icon: "scissors"},
	{Name: "Barba", Price: "R$ 35,00", Duration: "30 min", Icon: "razor"},
	{Name: "Corte + Barba", Price: "R$ 75,00", Duration: "1h 15min", Icon: "crown"},
	{Name: "Sobrancelha", Price: "R$ 20,00", Duration: "15 min", Icon: "eye"},
}

var defaultBarbers = []models.Barber{
	{Name: "Carlos Silva", Rating: 4.9},
	{Name: "Rafael Souza", Rating: 4.8},
	{Name: "André Lima", Rating: 4.7},
}

// SeedCatalog inserts the demo catalog once; existing names are kept.
func SeedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range defaultServices {
			row := s
			row.ID = uuid.NewString()
			if err := tx.Where(models.Service{Name: s.Name}).FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		for _, b := range defaultBarbers {
			row := b
			row.ID = uuid.NewString()
			if err := tx.Where(models.Barber{Name: b.Name}).FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
