package schedule

import (
	"context"
	"time"

	"github.com/agendly/booking-engine/internal/models"
	"github.com/agendly/booking-engine/internal/timezone"
)

const DateLayout = "2006-01-02"

// Resolver calcula as janelas abertas de um (org, serviço, data) fundindo
// quatro camadas com precedência estrita:
//
//  1. freeze do dia (política histórica congelada)
//  2. agenda semanal do serviço (exclusiva quando existe qualquer linha)
//  3. herança: org ∩ membros atribuídos (caso especial: serviço sem
//     membros em plano team fica com o dia inteiro)
//  4. overrides por data (bloqueantes subtraem, abertos somam)
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// resolveState carrega lazy o que cada camada precisa.
type resolveState struct {
	org     *models.Organization
	svc     *models.Service
	day     time.Time
	weekday int

	members     []models.Member
	membersSet  bool
	frozen      *models.FrozenSettings
	serviceRows []models.ServiceWeeklyAvailability
}

func (r *Resolver) loadMembers(ctx context.Context, st *resolveState) ([]models.Member, error) {
	if st.membersSet {
		return st.members, nil
	}
	members, err := r.repo.ListAssignedMembers(ctx, st.svc.ID)
	if err != nil {
		return nil, err
	}
	st.members = members
	st.membersSet = true
	return members, nil
}

// DayBounds retorna [início, fim) do dia local da organização.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}

// SoloMember retorna o membro quando o serviço tem exatamente um atribuído.
func SoloMember(members []models.Member) *models.Member {
	if len(members) == 1 {
		return &members[0]
	}
	return nil
}

// Resolve implementa a cadeia de camadas e devolve janelas ordenadas,
// sem sobreposição, recortadas ao dia.
func (r *Resolver) Resolve(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
	date time.Time,
) ([]Window, error) {
	windows, _, err := r.ResolveDay(ctx, org, svc, date)
	return windows, err
}

// ResolveDay devolve também as configurações congeladas quando a data tem
// freeze: geração de slot e commit devem honrar a política histórica, não
// a atual.
func (r *Resolver) ResolveDay(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
	date time.Time,
) ([]Window, *models.FrozenSettings, error) {

	loc := timezone.Location(org.Timezone)
	dayStart, dayEnd := DayBounds(date, loc)

	st := &resolveState{
		org:     org,
		svc:     svc,
		day:     dayStart,
		weekday: int(dayStart.Weekday()),
	}

	layers := []func(context.Context, *resolveState) ([]Window, bool, error){
		r.freezeLayer,
		r.serviceWeeklyLayer,
		r.inheritanceLayer,
	}

	var base []Window
	for _, layer := range layers {
		ws, ok, err := layer(ctx, st)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			base = ws
			break
		}
	}

	// Overrides do dia: bloqueantes subtraem, abertos somam.
	overrides, err := r.repo.ListOverridesForRange(ctx, org.ID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, err
	}

	members, err := r.loadMembers(ctx, st)
	if err != nil {
		return nil, nil, err
	}
	solo := SoloMember(members)

	var blocking, open []Window
	for i := range overrides {
		ov := &overrides[i]
		if !OverrideApplies(ov, svc, solo) {
			continue
		}
		w := overrideWindow(ov, dayStart, dayEnd, loc)
		if w.Empty() {
			continue
		}
		if ov.IsBlocking {
			blocking = append(blocking, w)
		} else {
			open = append(open, w)
		}
	}

	base = SubtractWindows(base, blocking)
	return MergeWindows(append(base, open...)), st.frozen, nil
}

// ApplyFrozen devolve uma cópia do serviço com as configurações da data
// congelada aplicadas por cima.
func ApplyFrozen(svc *models.Service, fs *models.FrozenSettings) *models.Service {
	eff := *svc
	if fs == nil {
		return &eff
	}
	eff.DurationMin = fs.DurationMin
	eff.BufferBeforeMin = fs.BufferBeforeMin
	eff.BufferAfterMin = fs.BufferAfterMin
	eff.TimeIncrementMin = fs.TimeIncrementMin
	eff.UseFixedIncrement = fs.UseFixedIncrement
	eff.AllowEndsAfterAvailability = fs.AllowEndsAfterAvailability
	eff.AllowSquishedBookings = fs.AllowSquishedBookings
	return &eff
}

// --------------------------------------------------
// Camada 1: freeze
// --------------------------------------------------

func (r *Resolver) freezeLayer(ctx context.Context, st *resolveState) ([]Window, bool, error) {
	fz, err := r.repo.GetFreeze(ctx, st.svc.ID, st.day.Format(DateLayout))
	if err != nil {
		return nil, false, err
	}
	if fz == nil {
		return nil, false, nil
	}

	frozen, err := fz.DecodeSettings()
	if err != nil {
		return nil, false, err
	}
	st.frozen = frozen

	var ws []Window
	for _, fw := range frozen.WeeklyWindows {
		w, err := windowFromTimes(fw.Start, fw.End)
		if err != nil {
			continue
		}
		ws = append(ws, w)
	}
	return MergeWindows(ws), true, nil
}

// --------------------------------------------------
// Camada 2: agenda semanal do serviço
// --------------------------------------------------

// Qualquer linha ativa torna a agenda do serviço exclusiva: dias sem
// linha ficam fechados, sem fallback para org/membro.
func (r *Resolver) serviceWeeklyLayer(ctx context.Context, st *resolveState) ([]Window, bool, error) {
	rows, err := r.repo.ListServiceWeekly(ctx, st.svc.ID)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	st.serviceRows = rows

	var ws []Window
	for _, row := range rows {
		if row.Weekday != st.weekday {
			continue
		}
		w, err := windowFromTimes(row.StartTime, row.EndTime)
		if err != nil {
			continue
		}
		ws = append(ws, w)
	}
	return MergeWindows(ws), true, nil
}

// --------------------------------------------------
// Camada 3: herança org/membros
// --------------------------------------------------

func (r *Resolver) inheritanceLayer(ctx context.Context, st *resolveState) ([]Window, bool, error) {
	members, err := r.loadMembers(ctx, st)
	if err != nil {
		return nil, false, err
	}

	if len(members) == 0 {
		// Serviço sem atribuição em plano team: dia inteiro liberado,
		// o dono gerencia por overrides.
		if st.org.IsTeamTier() {
			return []Window{{StartMin: 0, EndMin: MinutesPerDay}}, true, nil
		}
		return nil, true, nil
	}

	orgRows, err := r.repo.ListOrgWeekly(ctx, st.org.ID, st.weekday)
	if err != nil {
		return nil, false, err
	}
	orgWindows := orgWeeklyWindows(orgRows)

	var memberUnion []Window
	for _, m := range members {
		rows, err := r.repo.ListMemberWeekly(ctx, m.ID, st.weekday)
		if err != nil {
			return nil, false, err
		}
		memberUnion = append(memberUnion, memberWeeklyWindows(rows)...)
	}

	return IntersectWindows(orgWindows, MergeWindows(memberUnion)), true, nil
}

// --------------------------------------------------
// Conversões
// --------------------------------------------------

func windowFromTimes(start, end string) (Window, error) {
	s, err := ParseHM(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseHM(end)
	if err != nil {
		return Window{}, err
	}
	return Window{StartMin: s, EndMin: e}, nil
}

func orgWeeklyWindows(rows []models.WeeklyAvailability) []Window {
	var ws []Window
	for _, row := range rows {
		if w, err := windowFromTimes(row.StartTime, row.EndTime); err == nil {
			ws = append(ws, w)
		}
	}
	return ws
}

func memberWeeklyWindows(rows []models.MemberWeeklyAvailability) []Window {
	var ws []Window
	for _, row := range rows {
		if w, err := windowFromTimes(row.StartTime, row.EndTime); err == nil {
			ws = append(ws, w)
		}
	}
	return ws
}

// OverrideApplies decide se um override alcança o serviço em questão:
// org-wide sempre; member só quando o membro é o único atribuído;
// service só para o próprio serviço.
func OverrideApplies(ov *models.Booking, svc *models.Service, solo *models.Member) bool {
	switch ov.ScopeKind {
	case models.ScopeOrg, "":
		return true
	case models.ScopeService:
		return ov.ScopeID != nil && *ov.ScopeID == svc.ID
	case models.ScopeMember:
		return solo != nil && ov.ScopeID != nil && *ov.ScopeID == solo.ID
	}
	return false
}

// overrideWindow projeta o intervalo absoluto do override em minutos do
// dia. Overrides atravessando meia-noite são rejeitados na escrita, então
// o recorte aqui é apenas defensivo.
func overrideWindow(ov *models.Booking, dayStart, dayEnd time.Time, loc *time.Location) Window {
	return ProjectInterval(ov.StartTime, ov.EndTime, dayStart, dayEnd, loc)
}
