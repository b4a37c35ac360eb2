package service

import (
	"time"

	"aduan-portal/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(id int64) (*model.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindAll() ([]model.User, error) {
	args := m.Called()
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *MockUserStore) FindPetugas() ([]model.PetugasSummary, error) {
	args := m.Called()
	petugas, _ := args.Get(0).([]model.PetugasSummary)
	return petugas, args.Error(1)
}

func (m *MockUserStore) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) SetVerified(id int64, verified bool, at time.Time) error {
	args := m.Called(id, verified, at)
	return args.Error(0)
}

func (m *MockUserStore) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserStore) NIKExists(nik string) (bool, error) {
	args := m.Called(nik)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) EmailExistsExcept(email string, userID int64) (bool, error) {
	args := m.Called(email, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ComplaintRefCount(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

type MockComplaintStore struct {
	mock.Mock
}

func (m *MockComplaintStore) CreateWithInitialStatus(c *model.Complaint, first *model.StatusEntry, attachments []string, routingKey string, event interface{}) error {
	args := m.Called(c, first, attachments, routingKey, event)
	return args.Error(0)
}

func (m *MockComplaintStore) AppendStatus(entry *model.StatusEntry, attachments []string, routingKey string, event interface{}) error {
	args := m.Called(entry, attachments, routingKey, event)
	return args.Error(0)
}

func (m *MockComplaintStore) FindByID(id int64) (*model.Complaint, error) {
	args := m.Called(id)
	complaint, _ := args.Get(0).(*model.Complaint)
	return complaint, args.Error(1)
}

func (m *MockComplaintStore) AssignPetugas(aduanID, petugasID int64, at time.Time) error {
	args := m.Called(aduanID, petugasID, at)
	return args.Error(0)
}

func (m *MockComplaintStore) List(pelaporID, petugasID *int64) ([]model.ComplaintSummary, error) {
	args := m.Called(pelaporID, petugasID)
	summaries, _ := args.Get(0).([]model.ComplaintSummary)
	return summaries, args.Error(1)
}

func (m *MockComplaintStore) Detail(id int64, pelaporID, petugasID *int64) (*model.ComplaintDetail, error) {
	args := m.Called(id, pelaporID, petugasID)
	detail, _ := args.Get(0).(*model.ComplaintDetail)
	return detail, args.Error(1)
}

type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) DailyCounts(since time.Time, pelaporID *int64) ([]model.DailyCount, error) {
	args := m.Called(since, pelaporID)
	counts, _ := args.Get(0).([]model.DailyCount)
	return counts, args.Error(1)
}

func (m *MockStatsStore) StatusDistribution(pelaporID *int64) ([]model.StatusCount, error) {
	args := m.Called(pelaporID)
	counts, _ := args.Get(0).([]model.StatusCount)
	return counts, args.Error(1)
}

func (m *MockStatsStore) CategoryDistribution(pelaporID *int64) ([]model.CategoryCount, error) {
	args := m.Called(pelaporID)
	counts, _ := args.Get(0).([]model.CategoryCount)
	return counts, args.Error(1)
}

func (m *MockStatsStore) CountAduan(pelaporID *int64) (int, error) {
	args := m.Called(pelaporID)
	return args.Int(0), args.Error(1)
}
