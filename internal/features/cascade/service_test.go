package cascade

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/features/appointment"
	"go-backoffice/internal/features/dealership"
	"go-backoffice/internal/features/lead"
	"go-backoffice/internal/features/note"
	"go-backoffice/internal/features/notification"
	"go-backoffice/internal/features/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// store is an in-memory database whose transactions restore a snapshot on error.
type store struct {
	leads       map[string]lead.Lead
	appts       map[string]appointment.Appointment
	staff       map[string]staff.Staff
	dealerships map[string]dealership.Dealership
	mirrorErr   error
	deleteErr   error
}

func newStore() *store {
	return &store{
		leads:       map[string]lead.Lead{},
		appts:       map[string]appointment.Appointment{},
		staff:       map[string]staff.Staff{},
		dealerships: map[string]dealership.Dealership{},
	}
}

func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	leads := make(map[string]lead.Lead, len(s.leads))
	for k, v := range s.leads {
		leads[k] = v
	}
	appts := make(map[string]appointment.Appointment, len(s.appts))
	for k, v := range s.appts {
		appts[k] = v
	}
	staffCopy := make(map[string]staff.Staff, len(s.staff))
	for k, v := range s.staff {
		staffCopy[k] = v
	}
	if err := fn(ctx); err != nil {
		s.leads, s.appts, s.staff = leads, appts, staffCopy
		return err
	}
	return nil
}

type leadRepo struct {
	lead.LeadRepository
	s *store
}

func (r leadRepo) FindByID(ctx context.Context, id string) (*lead.Lead, error) {
	l, ok := r.s.leads[id]
	if !ok {
		return nil, errs.NotFound("lead.find", "lead %s not found", id)
	}
	return &l, nil
}

func (r leadRepo) ApplyPatch(ctx context.Context, id string, p lead.Patch, at time.Time) error {
	l, ok := r.s.leads[id]
	if !ok {
		return errs.NotFound("lead.apply_patch", "lead %s not found", id)
	}
	r.s.leads[id] = l.Apply(p, at)
	return nil
}

func (r leadRepo) SetInterestedVehicle(ctx context.Context, id, vehicleID string, at time.Time) error {
	l, ok := r.s.leads[id]
	if !ok {
		return errs.NotFound("lead.set_vehicle", "lead %s not found", id)
	}
	l.InterestedVehicleID = &vehicleID
	l.LastActivity = at
	r.s.leads[id] = l
	return nil
}

func (r leadRepo) SetOwnerNameFor(ctx context.Context, ownerID, name string) (int64, error) {
	var n int64
	for id, l := range r.s.leads {
		if l.OwnerID == ownerID {
			l.OwnerName = name
			r.s.leads[id] = l
			n++
		}
	}
	return n, nil
}

func (r leadRepo) SetDealershipNameFor(ctx context.Context, dealershipID, name string) (int64, error) {
	var n int64
	for id, l := range r.s.leads {
		if l.DealershipID == dealershipID {
			l.DealershipName = name
			r.s.leads[id] = l
			n++
		}
	}
	return n, nil
}

func (r leadRepo) Delete(ctx context.Context, id string) error {
	if r.s.deleteErr != nil {
		return r.s.deleteErr
	}
	if _, ok := r.s.leads[id]; !ok {
		return errs.NotFound("lead.delete", "lead %s not found", id)
	}
	delete(r.s.leads, id)
	return nil
}

type apptRepo struct {
	appointment.AppointmentRepository
	s *store
}

func (r apptRepo) FindOpenByLead(ctx context.Context, leadID string, at time.Time) ([]appointment.Appointment, error) {
	var out []appointment.Appointment
	for _, a := range r.s.appts {
		if a.LeadID == leadID && a.IsOpen(at) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r apptRepo) ApplyMirror(ctx context.Context, ids []string, m appointment.Mirror) (int64, error) {
	if r.s.mirrorErr != nil {
		return 0, r.s.mirrorErr
	}
	for _, id := range ids {
		r.s.appts[id] = r.s.appts[id].ApplyMirror(m)
	}
	return int64(len(ids)), nil
}

func (r apptRepo) DeleteByLead(ctx context.Context, leadID string) (int64, error) {
	var n int64
	for id, a := range r.s.appts {
		if a.LeadID == leadID {
			delete(r.s.appts, id)
			n++
		}
	}
	return n, nil
}

type staffRepo struct {
	staff.StaffRepository
	s *store
}

func (r staffRepo) FindByID(ctx context.Context, id string) (*staff.Staff, error) {
	m, ok := r.s.staff[id]
	if !ok {
		return nil, errs.NotFound("staff.find", "staff %s not found", id)
	}
	return &m, nil
}

func (r staffRepo) SetName(ctx context.Context, id, name string) error {
	m, ok := r.s.staff[id]
	if !ok {
		return errs.NotFound("staff.set_name", "staff %s not found", id)
	}
	m.Name = name
	r.s.staff[id] = m
	return nil
}

type dealershipRepo struct {
	dealership.DealershipRepository
	s *store
}

func (r dealershipRepo) FindByID(ctx context.Context, id string) (*dealership.Dealership, error) {
	d, ok := r.s.dealerships[id]
	if !ok {
		return nil, errs.NotFound("dealership.find", "dealership %s not found", id)
	}
	return &d, nil
}

func (r dealershipRepo) SetName(ctx context.Context, id, name string) error {
	d, ok := r.s.dealerships[id]
	if !ok {
		return errs.NotFound("dealership.set_name", "dealership %s not found", id)
	}
	d.Name = name
	r.s.dealerships[id] = d
	return nil
}

type noteRecorder struct {
	note.NoteService
	entries []note.NoteEntry
	err     error
}

func (n *noteRecorder) Record(ctx context.Context, leadID, content, author string, noteType note.Type) error {
	if n.err != nil {
		return n.err
	}
	n.entries = append(n.entries, note.NoteEntry{LeadID: leadID, Content: content, Author: author, Type: noteType})
	return nil
}

type delivery struct {
	userID  string
	eventID string
	message string
}

type notifierRecorder struct {
	sent []delivery
	err  error
}

func (n *notifierRecorder) Notify(ctx context.Context, userID string, subject notification.LeadRef, message, authorName, eventID string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, delivery{userID: userID, eventID: eventID, message: message})
	return nil
}

type fixture struct {
	store    *store
	notes    *noteRecorder
	notifier *notifierRecorder
	svc      *CascadeServiceImpl
}

func newFixture() *fixture {
	s := newStore()
	s.staff["A"] = staff.Staff{ID: "A", Name: "Ana", Role: models.RoleBroker}
	s.staff["B"] = staff.Staff{ID: "B", Name: "Beto", Role: models.RoleBroker}
	s.staff["C"] = staff.Staff{ID: "C", Name: "Cata", Role: models.RoleSupervisor}
	s.dealerships["D1"] = dealership.Dealership{ID: "D1", Name: "Norte"}
	s.dealerships["D2"] = dealership.Dealership{ID: "D2", Name: "Sur"}
	s.leads["L"] = lead.Lead{
		ID: "L", Name: "Carla", Stage: models.StageCitado,
		OwnerID: "A", OwnerName: "Ana", DealershipID: "D1", DealershipName: "Norte",
	}
	s.appts["Ap1"] = appointment.Appointment{
		ID: "Ap1", LeadID: "L", LeadName: "Carla", OwnerID: "A", Stage: models.StageCitado,
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour),
	}

	notes := &noteRecorder{}
	notifier := &notifierRecorder{}
	leads := leadRepo{s: s}
	appts := apptRepo{s: s}
	svc := &CascadeServiceImpl{
		Leads:        leads,
		Appointments: appts,
		Staff:        staffRepo{s: s},
		Dealerships:  dealershipRepo{s: s},
		Committer:    NewCommitter(s, leads, appts),
		Tx:           s,
		Notes:        notes,
		Notifier:     notifier,
		Logger:       zap.NewNop(),
		nowFn:        func() time.Time { return now },
		eventIDFn:    func() string { return "evt-1" },
	}
	return &fixture{store: s, notes: notes, notifier: notifier, svc: svc}
}

func strPtr(s string) *string { return &s }

func stagePtr(s models.Stage) *models.Stage { return &s }

var (
	ana  = models.Actor{ID: "A", Name: "Ana", Role: models.RoleBroker}
	cata = models.Actor{ID: "C", Name: "Cata", Role: models.RoleSupervisor}
)

func TestReassignMirrorsOwnerAndNotifiesNewOwner(t *testing.T) {
	f := newFixture()

	res, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{OwnerID: strPtr("B")}, ana)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.Appointments)

	assert.Equal(t, "B", f.store.leads["L"].OwnerID)
	assert.Equal(t, "Beto", f.store.leads["L"].OwnerName)
	assert.Equal(t, "B", f.store.appts["Ap1"].OwnerID)
	assert.Equal(t, now, f.store.leads["L"].LastActivity)

	require.Len(t, f.notes.entries, 1)
	assert.Equal(t, note.TypeOwnerChange, f.notes.entries[0].Type)
	assert.Equal(t, "Owner changed from 'Ana' to 'Beto' by Ana", f.notes.entries[0].Content)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "B", f.notifier.sent[0].userID)
	assert.Equal(t, "evt-1", f.notifier.sent[0].eventID)
}

func TestReassignByThirdPartyNotifiesBothOwners(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{OwnerID: strPtr("B")}, cata)
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "B", f.notifier.sent[0].userID)
	assert.Equal(t, "A", f.notifier.sent[1].userID)
	assert.Equal(t, f.notifier.sent[0].eventID, f.notifier.sent[1].eventID)
}

func TestMirrorsEveryOpenAppointmentOnly(t *testing.T) {
	f := newFixture()
	f.store.appts["Ap2"] = appointment.Appointment{ID: "Ap2", LeadID: "L", OwnerID: "A", Stage: models.StageCitado, EndTime: now}
	f.store.appts["Ap3"] = appointment.Appointment{ID: "Ap3", LeadID: "L", OwnerID: "A", Stage: models.StageCitado, EndTime: now.Add(48 * time.Hour)}
	f.store.appts["past"] = appointment.Appointment{ID: "past", LeadID: "L", OwnerID: "A", Stage: models.StageCitado, EndTime: now.Add(-time.Minute)}
	f.store.appts["other"] = appointment.Appointment{ID: "other", LeadID: "L2", OwnerID: "A", Stage: models.StageCitado, EndTime: now.Add(time.Hour)}

	res, err := f.svc.ApplyLeadMutation(context.Background(), "L",
		lead.Patch{Stage: stagePtr(models.StageEnSeguimiento), Name: strPtr("Carla Ruiz")}, ana)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Appointments)

	for _, id := range []string{"Ap1", "Ap2", "Ap3"} {
		assert.Equal(t, models.StageEnSeguimiento, f.store.appts[id].Stage, id)
		assert.Equal(t, "Carla Ruiz", f.store.appts[id].LeadName, id)
	}
	assert.Equal(t, models.StageCitado, f.store.appts["past"].Stage)
	assert.Equal(t, models.StageCitado, f.store.appts["other"].Stage)

	require.Len(t, f.notes.entries, 1)
	assert.Equal(t, note.TypeStageChange, f.notes.entries[0].Type)
	assert.Equal(t, "Stage changed from 'Citado' to 'EnSeguimiento' and name changed from 'Carla' to 'Carla Ruiz' by Ana",
		f.notes.entries[0].Content)
	assert.Empty(t, f.notifier.sent)
}

func TestCommitFailureLeavesNoTrace(t *testing.T) {
	f := newFixture()
	f.store.mirrorErr = errors.New("write conflict")

	res, err := f.svc.ApplyLeadMutation(context.Background(), "L",
		lead.Patch{OwnerID: strPtr("B"), Stage: stagePtr(models.StageEnSeguimiento)}, ana)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errs.Is(err, errs.KindCommitFailed))

	assert.Equal(t, "A", f.store.leads["L"].OwnerID)
	assert.Equal(t, models.StageCitado, f.store.leads["L"].Stage)
	assert.Equal(t, "A", f.store.appts["Ap1"].OwnerID)
	assert.Empty(t, f.notes.entries)
	assert.Empty(t, f.notifier.sent)
}

func TestSideEffectFailuresBecomeWarnings(t *testing.T) {
	f := newFixture()
	f.notes.err = errors.New("notes unavailable")
	f.notifier.err = errors.New("notifications unavailable")

	res, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{OwnerID: strPtr("B")}, ana)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 2)
	for _, w := range res.Warnings {
		assert.True(t, errs.Is(w, errs.KindSideEffectFailed))
	}
	assert.Equal(t, "B", f.store.leads["L"].OwnerID)
	assert.Equal(t, "B", f.store.appts["Ap1"].OwnerID)
}

func TestBrokerCannotClose(t *testing.T) {
	for _, stage := range []models.Stage{models.StageGanado, models.StagePerdido} {
		f := newFixture()

		_, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{Stage: stagePtr(stage)}, ana)
		assert.True(t, errs.Is(err, errs.KindValidation), stage)
		assert.Equal(t, models.StageCitado, f.store.leads["L"].Stage)
		assert.Empty(t, f.notes.entries)
	}

	f := newFixture()
	res, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{Stage: stagePtr(models.StageGanado)}, cata)
	require.NoError(t, err)
	assert.Equal(t, models.StageGanado, res.Lead.Stage)
	assert.Equal(t, models.StageGanado, f.store.appts["Ap1"].Stage)
}

func TestRejectsInvalidPatches(t *testing.T) {
	cases := map[string]struct {
		patch lead.Patch
		kind  errs.Kind
	}{
		"empty":              {lead.Patch{}, errs.KindValidation},
		"unknown owner":      {lead.Patch{OwnerID: strPtr("nobody")}, errs.KindValidation},
		"unknown dealership": {lead.Patch{DealershipID: strPtr("D9")}, errs.KindValidation},
		"unknown stage":      {lead.Patch{Stage: stagePtr("Limbo")}, errs.KindValidation},
		"blank name":         {lead.Patch{Name: strPtr("  ")}, errs.KindValidation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.ApplyLeadMutation(context.Background(), "L", tc.patch, cata)
			assert.True(t, errs.Is(err, tc.kind), err)
			assert.Empty(t, f.notes.entries)
		})
	}

	f := newFixture()
	_, err := f.svc.ApplyLeadMutation(context.Background(), "missing", lead.Patch{Name: strPtr("x")}, cata)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestBrokerCannotTouchForeignLead(t *testing.T) {
	f := newFixture()
	beto := models.Actor{ID: "B", Name: "Beto", Role: models.RoleBroker}

	_, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{Name: strPtr("x")}, beto)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestDealershipChangeFillsName(t *testing.T) {
	f := newFixture()

	res, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{DealershipID: strPtr("D2")}, cata)
	require.NoError(t, err)

	assert.Equal(t, "Sur", res.Lead.DealershipName)
	assert.Equal(t, "Sur", f.store.leads["L"].DealershipName)
	assert.Equal(t, 0, res.Appointments)
	require.Len(t, f.notes.entries, 1)
	assert.Equal(t, note.TypeDealershipChange, f.notes.entries[0].Type)
}

func TestDescribePrecedence(t *testing.T) {
	base := lead.Lead{Name: "Carla", Stage: models.StageNuevo, OwnerID: "A", OwnerName: "Ana", DealershipID: "D1", DealershipName: "Norte"}

	all := base
	all.Stage = models.StageCitado
	all.OwnerID, all.OwnerName = "B", "Beto"
	all.DealershipID, all.DealershipName = "D2", "Sur"
	content, typ := describe(base, all, cata)
	assert.Equal(t, note.TypeOwnerChange, typ)
	assert.Equal(t, "Stage changed from 'Nuevo' to 'Citado', owner changed from 'Ana' to 'Beto' and dealership changed from 'Norte' to 'Sur' by Cata", content)

	stageAndDealer := base
	stageAndDealer.Stage = models.StageCitado
	stageAndDealer.DealershipID = "D2"
	_, typ = describe(base, stageAndDealer, cata)
	assert.Equal(t, note.TypeStageChange, typ)

	renamed := base
	renamed.Name = "Carla R"
	_, typ = describe(base, renamed, cata)
	assert.Equal(t, note.TypeSystem, typ)

	content, typ = describe(base, base, cata)
	assert.Equal(t, note.TypeSystem, typ)
	assert.Equal(t, "Lead updated by Cata", content)
}

func TestDeleteLead(t *testing.T) {
	f := newFixture()
	f.store.appts["Ap2"] = appointment.Appointment{ID: "Ap2", LeadID: "L", EndTime: now.Add(-time.Hour)}

	_, err := f.svc.DeleteLead(context.Background(), "L", ana)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Contains(t, f.store.leads, "L")

	res, err := f.svc.DeleteLead(context.Background(), "L", cata)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Appointments)
	assert.NotContains(t, f.store.leads, "L")
	assert.Empty(t, f.store.appts)
	require.Len(t, f.notes.entries, 1)
	assert.Equal(t, "L", f.notes.entries[0].LeadID)
}

func TestDeleteLeadRollsBack(t *testing.T) {
	f := newFixture()
	f.store.deleteErr = errors.New("primary stepped down")

	_, err := f.svc.DeleteLead(context.Background(), "L", cata)
	assert.True(t, errs.Is(err, errs.KindCommitFailed))
	assert.Contains(t, f.store.leads, "L")
	assert.Contains(t, f.store.appts, "Ap1")
	assert.Empty(t, f.notes.entries)
}

func TestLinkVehicle(t *testing.T) {
	f := newFixture()

	res, err := f.svc.LinkVehicle(context.Background(), "L", "veh-42", ana)
	require.NoError(t, err)
	require.NotNil(t, res.Lead.InterestedVehicleID)
	assert.Equal(t, "veh-42", *f.store.leads["L"].InterestedVehicleID)
	require.Len(t, f.notes.entries, 1)
	assert.Equal(t, note.TypeVehicleLink, f.notes.entries[0].Type)

	_, err = f.svc.LinkVehicle(context.Background(), "L", " ", ana)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestPropagateStaffRename(t *testing.T) {
	f := newFixture()
	f.store.leads["L2"] = lead.Lead{ID: "L2", OwnerID: "A", OwnerName: "Ana"}
	f.store.leads["L3"] = lead.Lead{ID: "L3", OwnerID: "B", OwnerName: "Beto"}

	require.NoError(t, f.svc.PropagateStaffRename(context.Background(), "A", "Ana María", cata))

	assert.Equal(t, "Ana María", f.store.staff["A"].Name)
	assert.Equal(t, "Ana María", f.store.leads["L"].OwnerName)
	assert.Equal(t, "Ana María", f.store.leads["L2"].OwnerName)
	assert.Equal(t, "Beto", f.store.leads["L3"].OwnerName)

	err := f.svc.PropagateStaffRename(context.Background(), "nobody", "X", cata)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestPropagateDealershipRename(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.PropagateDealershipRename(context.Background(), "D1", "Norte Centro", cata))

	assert.Equal(t, "Norte Centro", f.store.dealerships["D1"].Name)
	assert.Equal(t, "Norte Centro", f.store.leads["L"].DealershipName)

	err := f.svc.PropagateDealershipRename(context.Background(), "D1", "", cata)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestOwnerNameAlwaysComesFromStaff(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ApplyLeadMutation(context.Background(), "L",
		lead.Patch{OwnerID: strPtr("B"), OwnerName: strPtr("Mallory")}, cata)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Equal(t, "A", f.store.leads["L"].OwnerID)
	assert.Equal(t, "Ana", f.store.leads["L"].OwnerName)

	_, err = f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{OwnerName: strPtr("Nobody")}, cata)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Equal(t, "Ana", f.store.leads["L"].OwnerName)
	assert.Empty(t, f.notes.entries)

	res, err := f.svc.ApplyLeadMutation(context.Background(), "L",
		lead.Patch{OwnerID: strPtr("B"), OwnerName: strPtr("Beto")}, cata)
	require.NoError(t, err)
	assert.Equal(t, "Beto", res.Lead.OwnerName)
}

func TestDealershipNameAlwaysComesFromDealership(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ApplyLeadMutation(context.Background(), "L",
		lead.Patch{DealershipID: strPtr("D2"), DealershipName: strPtr("Oeste")}, cata)
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{DealershipName: strPtr("Oeste")}, cata)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Equal(t, "D1", f.store.leads["L"].DealershipID)
	assert.Equal(t, "Norte", f.store.leads["L"].DealershipName)
}

func TestWinningStampsWonAtOnce(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{Stage: stagePtr(models.StageGanado)}, cata)
	require.NoError(t, err)
	require.NotNil(t, f.store.leads["L"].WonAt)
	assert.Equal(t, now, *f.store.leads["L"].WonAt)

	later := now.Add(72 * time.Hour)
	f.svc.nowFn = func() time.Time { return later }

	_, err = f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{Name: strPtr("Carla Ruiz")}, cata)
	require.NoError(t, err)
	_, err = f.svc.ApplyLeadMutation(context.Background(), "L", lead.Patch{Stage: stagePtr(models.StageGanado)}, cata)
	require.NoError(t, err)

	assert.Equal(t, now, *f.store.leads["L"].WonAt)
	assert.Equal(t, later, f.store.leads["L"].LastActivity)
}
