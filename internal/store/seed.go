package store

import (
	"context"
	"fmt"
)

var samplePets = []PetModel{
	{Name: "Buddy", Breed: "Golden Retriever", Age: 3, Description: "A friendly and playful dog.", ImagePath: "p1.jpg"},
	{Name: "Whiskers", Breed: "Tabby Cat", Age: 2, Description: "An independent cat who enjoys sunbathing.", ImagePath: "p2.jpg"},
	{Name: "Max", Breed: "German Shepherd", Age: 5, Description: "Loyal and energetic.", ImagePath: "p3.jpg"},
	{Name: "Luna", Breed: "Siamese Cat", Age: 1, Description: "A curious kitten who loves to play.", ImagePath: "p4.jpg"},
	{Name: "Rocky", Breed: "Labrador", Age: 4, Description: "A sweet and gentle giant.", ImagePath: "p5.jpg"},
	{Name: "Milo", Breed: "Beagle", Age: 2, Description: "A happy and outgoing dog.", ImagePath: "p6.jpg"},
	{Name: "Chloe", Breed: "Persian Cat", Age: 3, Description: "An elegant and calm cat.", ImagePath: "p7.jpg"},
	{Name: "Daisy", Breed: "Poodle", Age: 1, Description: "A smart and mischievous pup.", ImagePath: "p8.jpg"},
	{Name: "Zoe", Breed: "Dachshund", Age: 6, Description: "A spirited and brave little dog.", ImagePath: "p9.jpg"},
	{Name: "Oliver", Breed: "Maine Coon", Age: 4, Description: "A large and gentle cat.", ImagePath: "p10.jpg"},
}

var sampleServices = []ServiceModel{
	{Name: "Grooming", Description: "Full grooming service.", PriceCents: 5000},
	{Name: "Vet Checkup", Description: "Comprehensive health checkup.", PriceCents: 7500},
	{Name: "Pet Training", Description: "Basic obedience training.", PriceCents: 15000},
	{Name: "Daycare", Description: "Supervised daily care.", PriceCents: 3000},
	{Name: "Boarding", Description: "Overnight care and lodging.", PriceCents: 4000},
}

// Seed inserts the sample catalog into empty pets and services tables.
func (s *Store) Seed(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	var pets int64
	if err := db.Model(&PetModel{}).Count(&pets).Error; err != nil {
		return fmt.Errorf("count pets: %w", err)
	}
	if pets == 0 {
		rows := append([]PetModel(nil), samplePets...)
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed pets: %w", err)
		}
		s.logger.Info("sample pet data populated")
	}

	var services int64
	if err := db.Model(&ServiceModel{}).Count(&services).Error; err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if services == 0 {
		rows := append([]ServiceModel(nil), sampleServices...)
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed services: %w", err)
		}
		s.logger.Info("sample service data populated")
	}
	return nil
}
