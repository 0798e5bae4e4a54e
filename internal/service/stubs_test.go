package service

import (
	"context"
	"time"

	"doubtdesk/internal/auth"
	"doubtdesk/internal/models"
)

type userRepoStub struct {
	getByIDFn        func(context.Context, string) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
	createIfAbsentFn func(context.Context, *models.User) (bool, error)
	updateFn         func(context.Context, *models.User) error
	updateFieldsFn   func(context.Context, string, map[string]interface{}) error
	incrementStatFn  func(context.Context, string, string, int) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	return s.createIfAbsentFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *userRepoStub) IncrementStat(ctx context.Context, id, column string, delta int) error {
	return s.incrementStatFn(ctx, id, column, delta)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:        func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:         func(context.Context, *models.User) error { return nil },
		createIfAbsentFn: func(context.Context, *models.User) (bool, error) { return true, nil },
		updateFn:         func(context.Context, *models.User) error { return nil },
		updateFieldsFn:   func(context.Context, string, map[string]interface{}) error { return nil },
		incrementStatFn:  func(context.Context, string, string, int) error { return nil },
	}
}

type questionRepoStub struct {
	createFn             func(context.Context, *models.Question) error
	getByIDFn            func(context.Context, string) (*models.Question, error)
	listFn               func(context.Context, string) ([]*models.Question, error)
	listByAuthorFn       func(context.Context, string) ([]*models.Question, error)
	deleteFn             func(context.Context, string) error
	replaceAnswersFn     func(context.Context, string, models.AnswerList, int) error
	incrementUpvotesFn   func(context.Context, string) error
	distinctCategoriesFn func(context.Context) ([]string, error)
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question) error {
	return s.createFn(ctx, q)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id string) (*models.Question, error) {
	return s.getByIDFn(ctx, id)
}
func (s *questionRepoStub) List(ctx context.Context, category string) ([]*models.Question, error) {
	return s.listFn(ctx, category)
}
func (s *questionRepoStub) ListByAuthor(ctx context.Context, authorID string) ([]*models.Question, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *questionRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *questionRepoStub) ReplaceAnswers(ctx context.Context, id string, answers models.AnswerList, expectedVersion int) error {
	return s.replaceAnswersFn(ctx, id, answers, expectedVersion)
}
func (s *questionRepoStub) IncrementUpvotes(ctx context.Context, id string) error {
	return s.incrementUpvotesFn(ctx, id)
}
func (s *questionRepoStub) DistinctCategories(ctx context.Context) ([]string, error) {
	return s.distinctCategoriesFn(ctx)
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn:             func(context.Context, *models.Question) error { return nil },
		getByIDFn:            func(context.Context, string) (*models.Question, error) { return &models.Question{}, nil },
		listFn:               func(context.Context, string) ([]*models.Question, error) { return nil, nil },
		listByAuthorFn:       func(context.Context, string) ([]*models.Question, error) { return nil, nil },
		deleteFn:             func(context.Context, string) error { return nil },
		replaceAnswersFn:     func(context.Context, string, models.AnswerList, int) error { return nil },
		incrementUpvotesFn:   func(context.Context, string) error { return nil },
		distinctCategoriesFn: func(context.Context) ([]string, error) { return nil, nil },
	}
}

type categoryRepoStub struct {
	getFn  func(context.Context) ([]string, error)
	saveFn func(context.Context, []string) error
}

func (s *categoryRepoStub) Get(ctx context.Context) ([]string, error) { return s.getFn(ctx) }
func (s *categoryRepoStub) Save(ctx context.Context, list []string) error {
	return s.saveFn(ctx, list)
}

type pendingRepoStub struct {
	createFn        func(context.Context, *models.PendingSignup) error
	deleteByUIDFn   func(context.Context, string) error
	deleteByEmailFn func(context.Context, string) error
	deleteExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *pendingRepoStub) Create(ctx context.Context, pending *models.PendingSignup) error {
	return s.createFn(ctx, pending)
}
func (s *pendingRepoStub) DeleteByUID(ctx context.Context, uid string) error {
	return s.deleteByUIDFn(ctx, uid)
}
func (s *pendingRepoStub) DeleteByEmail(ctx context.Context, email string) error {
	return s.deleteByEmailFn(ctx, email)
}
func (s *pendingRepoStub) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.deleteExpiredFn(ctx, cutoff)
}

func noopPendingRepo() *pendingRepoStub {
	return &pendingRepoStub{
		createFn:        func(context.Context, *models.PendingSignup) error { return nil },
		deleteByUIDFn:   func(context.Context, string) error { return nil },
		deleteByEmailFn: func(context.Context, string) error { return nil },
		deleteExpiredFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}
}

type askedRepoStub struct {
	getFn         func(context.Context, string) (*models.AskedRecord, error)
	appendTitleFn func(context.Context, string, string) error
}

func (s *askedRepoStub) Get(ctx context.Context, email string) (*models.AskedRecord, error) {
	return s.getFn(ctx, email)
}
func (s *askedRepoStub) AppendTitle(ctx context.Context, email, title string) error {
	return s.appendTitleFn(ctx, email, title)
}

func noopAskedRepo() *askedRepoStub {
	return &askedRepoStub{
		getFn:         func(context.Context, string) (*models.AskedRecord, error) { return nil, nil },
		appendTitleFn: func(context.Context, string, string) error { return nil },
	}
}

type providerStub struct {
	signInFn            func(context.Context, string, string) (auth.Subject, error)
	signUpFn            func(context.Context, string, string) (auth.Subject, error)
	signOutFn           func(context.Context, string) error
	sendVerificationFn  func(context.Context, auth.Subject) error
	listSignInMethodsFn func(context.Context, string) ([]string, error)
}

func (s *providerStub) SignIn(ctx context.Context, email, password string) (auth.Subject, error) {
	return s.signInFn(ctx, email, password)
}
func (s *providerStub) SignUp(ctx context.Context, email, password string) (auth.Subject, error) {
	return s.signUpFn(ctx, email, password)
}
func (s *providerStub) SignOut(ctx context.Context, uid string) error {
	return s.signOutFn(ctx, uid)
}
func (s *providerStub) SendVerification(ctx context.Context, subject auth.Subject) error {
	return s.sendVerificationFn(ctx, subject)
}
func (s *providerStub) ListSignInMethods(ctx context.Context, email string) ([]string, error) {
	return s.listSignInMethodsFn(ctx, email)
}

func noopProvider() *providerStub {
	return &providerStub{
		signInFn: func(_ context.Context, email, _ string) (auth.Subject, error) {
			return auth.Subject{UID: "uid-1", Email: email}, nil
		},
		signUpFn: func(_ context.Context, email, _ string) (auth.Subject, error) {
			return auth.Subject{UID: "uid-1", Email: email}, nil
		},
		signOutFn:           func(context.Context, string) error { return nil },
		sendVerificationFn:  func(context.Context, auth.Subject) error { return nil },
		listSignInMethodsFn: func(context.Context, string) ([]string, error) { return nil, nil },
	}
}
