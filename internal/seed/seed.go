package seed

import (
	"log"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with demo members and questions.
type Seeder struct {
	factory *Factory
	db      *gorm.DB
}

// NewSeeder creates a Seeder for the given database.
func NewSeeder(db *gorm.DB, orgDomain string) *Seeder {
	return &Seeder{factory: NewFactory(db, orgDomain), db: db}
}

// ClearAll wipes every seeded table. Destructive; development only.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.ActivityLog{}, &models.AskedRecord{}, &models.PendingSignup{},
		&models.Question{}, &models.CategoryRegistry{}, &auth.Account{}, &models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed creates numUsers members and numQuestions questions with answers
// spread among them, then fixes up the per-member counters.
func (s *Seeder) Seed(numUsers, numQuestions int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	asked := map[string]int{}
	answered := map[string]int{}
	for i := 0; i < numQuestions; i++ {
		author := users[i%len(users)]
		question, err := s.factory.CreateQuestion(author, users)
		if err != nil {
			return err
		}
		asked[author.ID]++
		for _, answer := range question.Answers {
			answered[answer.UserID]++
		}
	}
	log.Printf("created %d questions", numQuestions)

	for _, user := range users {
		err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"questions_asked": asked[user.ID],
			"answers_given":   answered[user.ID],
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
