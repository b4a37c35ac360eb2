package service

import (
	"context"
	"testing"
	"time"

	"aduan-portal/internal/messaging"
	"aduan-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func petugasCaller(id int64) *model.TokenClaims {
	return &model.TokenClaims{ID: id, Role: model.RolePetugas}
}

func TestFileComplaintStartsAsDiajukan(t *testing.T) {
	complaints := new(MockComplaintStore)
	complaints.On("CreateWithInitialStatus",
		mock.AnythingOfType("*model.Complaint"),
		mock.AnythingOfType("*model.StatusEntry"),
		[]string{"/uploads/foto.jpg"},
		messaging.RoutingKeyComplaintCreated,
		mock.AnythingOfType("*messaging.ComplaintCreatedEvent"),
	).Return(nil).Once()

	svc := NewComplaintService(complaints, new(MockUserStore))
	complaint, err := svc.FileComplaint(
		citizenCaller(5),
		"Jalan berlubang",
		"Lubang besar di depan pasar",
		model.KategoriInfrastruktur,
		"Jl. Merdeka No. 1",
		[]string{"/uploads/foto.jpg"},
	)
	require.NoError(t, err)

	assert.Equal(t, model.StatusDiajukan, complaint.StatusTerkini)
	assert.Equal(t, int64(5), complaint.PelaporID)
	assert.Nil(t, complaint.PetugasID)
	complaints.AssertExpectations(t)
}

func TestFileComplaintDefaultsCategory(t *testing.T) {
	complaints := new(MockComplaintStore)
	complaints.On("CreateWithInitialStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewComplaintService(complaints, new(MockUserStore))
	complaint, err := svc.FileComplaint(citizenCaller(5), "Judul", "Deskripsi", "", "Alamat", nil)
	require.NoError(t, err)

	assert.Equal(t, model.KategoriLainnya, complaint.KategoriAduan)
}

func TestFileComplaintMissingFields(t *testing.T) {
	svc := NewComplaintService(new(MockComplaintStore), new(MockUserStore))

	_, err := svc.FileComplaint(citizenCaller(5), "", "Deskripsi", model.KategoriSosial, "Alamat", nil)

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, appErr.Kind)
}

func TestFileComplaintUnknownCategory(t *testing.T) {
	svc := NewComplaintService(new(MockComplaintStore), new(MockUserStore))

	_, err := svc.FileComplaint(citizenCaller(5), "Judul", "Deskripsi", "transportasi", "Alamat", nil)

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, appErr.Kind)
}

func TestAssignPetugasUnknownComplaint(t *testing.T) {
	complaints := new(MockComplaintStore)
	complaints.On("FindByID", int64(9)).Return(nil, nil)

	svc := NewComplaintService(complaints, new(MockUserStore))
	_, err := svc.AssignPetugas(&model.AssignPetugasRequest{AduanID: 9, PetugasID: 2})

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindNotFound, appErr.Kind)
}

func TestAssignPetugasRejectsNonStaff(t *testing.T) {
	complaints := new(MockComplaintStore)
	complaints.On("FindByID", int64(9)).Return(&model.Complaint{ID: 9}, nil)

	users := new(MockUserStore)
	users.On("FindByID", int64(2)).Return(&model.User{ID: 2, Role: model.RoleMasyarakat}, nil)

	svc := NewComplaintService(complaints, users)
	_, err := svc.AssignPetugas(&model.AssignPetugasRequest{AduanID: 9, PetugasID: 2})

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, appErr.Kind)
	complaints.AssertNotCalled(t, "AssignPetugas")
}

func TestAssignPetugasSetsAssignee(t *testing.T) {
	complaints := new(MockComplaintStore)
	complaints.On("FindByID", int64(9)).Return(&model.Complaint{ID: 9}, nil)
	complaints.On("AssignPetugas", int64(9), int64(2), mock.AnythingOfType("time.Time")).Return(nil)

	users := new(MockUserStore)
	users.On("FindByID", int64(2)).Return(&model.User{ID: 2, Role: model.RolePetugas}, nil)

	svc := NewComplaintService(complaints, users)
	complaint, err := svc.AssignPetugas(&model.AssignPetugasRequest{AduanID: 9, PetugasID: 2})
	require.NoError(t, err)

	require.NotNil(t, complaint.PetugasID)
	assert.Equal(t, int64(2), *complaint.PetugasID)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc := NewComplaintService(new(MockComplaintStore), new(MockUserStore))

	_, err := svc.UpdateStatus(adminCaller(), 9, "Dibatalkan", "", nil)

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, appErr.Kind)
}

func TestUpdateStatusByUnassignedPetugas(t *testing.T) {
	other := int64(7)
	complaints := new(MockComplaintStore)
	complaints.On("FindByID", int64(9)).Return(&model.Complaint{ID: 9, PetugasID: &other}, nil)

	svc := NewComplaintService(complaints, new(MockUserStore))
	_, err := svc.UpdateStatus(petugasCaller(2), 9, model.StatusDiproses, "", nil)

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindForbidden, appErr.Kind)
	complaints.AssertNotCalled(t, "AppendStatus")
}

func TestUpdateStatusByAssignedPetugas(t *testing.T) {
	assignee := int64(2)
	complaints := new(MockComplaintStore)
	complaints.On("FindByID", int64(9)).Return(&model.Complaint{
		ID:         9,
		JudulAduan: "Jalan berlubang",
		PelaporID:  5,
		PetugasID:  &assignee,
	}, nil)

	var capturedEvent *messaging.StatusUpdatedEvent
	complaints.On("AppendStatus",
		mock.AnythingOfType("*model.StatusEntry"),
		[]string(nil),
		messaging.RoutingKeyStatusUpdate,
		mock.AnythingOfType("*messaging.StatusUpdatedEvent"),
	).Run(func(args mock.Arguments) {
		capturedEvent = args.Get(3).(*messaging.StatusUpdatedEvent)
	}).Return(nil).Once()

	svc := NewComplaintService(complaints, new(MockUserStore))
	entry, err := svc.UpdateStatus(petugasCaller(2), 9, model.StatusDiproses, "Sedang ditangani", nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusDiproses, entry.Status)
	require.NotNil(t, entry.Keterangan)
	assert.Equal(t, "Sedang ditangani", *entry.Keterangan)

	require.NotNil(t, capturedEvent)
	assert.Equal(t, int64(9), capturedEvent.AduanID)
	assert.Equal(t, int64(5), capturedEvent.PelaporID)
	assert.Equal(t, string(model.StatusDiproses), capturedEvent.NewStatus)
	complaints.AssertExpectations(t)
}

func TestListScopesByRole(t *testing.T) {
	cases := []struct {
		name   string
		caller *model.TokenClaims
		check  func(t *testing.T, pelaporID, petugasID *int64)
	}{
		{
			name:   "AdminSeesAll",
			caller: adminCaller(),
			check: func(t *testing.T, pelaporID, petugasID *int64) {
				assert.Nil(t, pelaporID)
				assert.Nil(t, petugasID)
			},
		},
		{
			name:   "CitizenSeesOwnFilings",
			caller: citizenCaller(5),
			check: func(t *testing.T, pelaporID, petugasID *int64) {
				require.NotNil(t, pelaporID)
				assert.Equal(t, int64(5), *pelaporID)
				assert.Nil(t, petugasID)
			},
		},
		{
			name:   "PetugasSeesAssignments",
			caller: petugasCaller(2),
			check: func(t *testing.T, pelaporID, petugasID *int64) {
				assert.Nil(t, pelaporID)
				require.NotNil(t, petugasID)
				assert.Equal(t, int64(2), *petugasID)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			complaints := new(MockComplaintStore)
			var gotPelapor, gotPetugas *int64
			complaints.On("List", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					gotPelapor, _ = args.Get(0).(*int64)
					gotPetugas, _ = args.Get(1).(*int64)
				}).
				Return([]model.ComplaintSummary{}, nil)

			svc := NewComplaintService(complaints, new(MockUserStore))
			resp, err := svc.List(tc.caller)
			require.NoError(t, err)

			assert.Equal(t, 0, resp.Total)
			tc.check(t, gotPelapor, gotPetugas)
		})
	}
}

func TestDetailOutOfScopeReadsAsAbsent(t *testing.T) {
	complaints := new(MockComplaintStore)
	complaints.On("Detail", int64(9), mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewComplaintService(complaints, new(MockUserStore))
	_, err := svc.Detail(citizenCaller(5), 9)

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindNotFound, appErr.Kind)
}

func TestStatisticsWithoutCacheComputesDirectly(t *testing.T) {
	store := new(MockStatsStore)
	store.On("DailyCounts", mock.AnythingOfType("time.Time"), (*int64)(nil)).
		Return([]model.DailyCount{{Date: time.Now().Format("2006-01-02"), Count: 2}}, nil)
	store.On("StatusDistribution", (*int64)(nil)).
		Return([]model.StatusCount{{Status: model.StatusDiajukan, Count: 2}}, nil)
	store.On("CategoryDistribution", (*int64)(nil)).
		Return([]model.CategoryCount{{Category: model.KategoriInfrastruktur, Count: 2}}, nil)
	store.On("CountAduan", (*int64)(nil)).Return(2, nil)

	svc := NewStatsService(store, nil)
	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalAduan)
	assert.Len(t, stats.DailyCounts, 1)
	store.AssertExpectations(t)
}
