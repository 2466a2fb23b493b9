package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jalon/internal/contract"
	"github.com/alexanderramin/jalon/internal/domain"
)

const dateLayout = "2006-01-02"

// FormatDate renders an optional date, or a dim dash when unset.
func FormatDate(d *time.Time) string {
	if d == nil {
		return Dim("—")
	}
	return d.Format(dateLayout)
}

// FormatDays renders a workload in days with two decimals.
func FormatDays(days float64) string {
	return fmt.Sprintf("%.2f j", days)
}

// ProjectLabel renders the project type and category in one word.
func ProjectLabel(p *domain.Project) string {
	switch p.Type {
	case domain.TypeEstimate:
		if p.EstimateCategory == domain.EstimateNonBillable {
			return "étude (non facturable)"
		}
		return "étude"
	case domain.TypeImplementation:
		return fmt.Sprintf("mise en œuvre (%s)", p.ImplementationCategory)
	default:
		return string(p.Type)
	}
}

// RenderProjectList renders the project table.
func RenderProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			shortID(p.ID),
			p.Name,
			p.Client,
			ProjectLabel(p),
			StageBadge(p.Stage),
			FormatDate(p.StartDate),
		})
	}
	return RenderTable([]string{"ID", "Nom", "Client", "Type", "Étape", "Début"}, rows)
}

// RenderStatus renders the full status view: identity, stage gates,
// workload balance and the line schedule.
func RenderStatus(status *contract.ProjectStatus) string {
	p := status.Project

	var b strings.Builder
	b.WriteString(Header(p.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StageBadge(p.Stage), Dim(ProjectLabel(p))))
	if p.Client != "" {
		b.WriteString(fmt.Sprintf("Client       %s\n", p.Client))
	}
	b.WriteString(fmt.Sprintf("Période      %s → %s\n", FormatDate(p.StartDate), FormatDate(p.EndDate)))
	b.WriteString(fmt.Sprintf("Charge       %s\n", status.WorkloadInfo))
	if status.ProfilesWorkloadExceeded {
		b.WriteString(StyleRed.Render("             charge des profils en dépassement") + "\n")
	}
	b.WriteString(fmt.Sprintf("Facteur      ×%.2f\n", status.WorkforceFactor))
	b.WriteString(fmt.Sprintf("Lots         %d (%s départements assignés)\n", status.LotCount, GateMark(status.AllDepartmentsAssigned)))

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s générer le devis   %s valider le devis   %s générer les tâches\n",
		GateMark(status.CanGenerateQuote), GateMark(status.CanValidateQuote), GateMark(status.CanActivate)))
	if status.BlockingReason != "" {
		b.WriteString(StyleYellow.Render("⚠ "+status.BlockingReason) + "\n")
	}

	if len(status.Lines) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(status.Lines))
		for _, l := range status.Lines {
			rows = append(rows, []string{
				fmt.Sprintf("%d", l.Order),
				l.Name,
				l.Department,
				FormatDays(l.EstimatedWorkDays),
				string(l.Complexity),
				FormatDate(l.PlannedStartDate),
				FormatDate(l.PlannedEndDate),
			})
		}
		b.WriteString(RenderTable(
			[]string{"Ordre", "Exigence", "Département", "Charge", "Complexité", "Début", "Fin"}, rows))
	}
	return b.String()
}

// RenderQuote renders a one-quote summary block.
func RenderQuote(q *domain.Quote) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(q.Reference), QuoteBadge(q.State)))
	b.WriteString(fmt.Sprintf("Prix unitaire  %s\n", q.UnitPrice.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Quantité       %.2f\n", q.Quantity))
	b.WriteString(fmt.Sprintf("Montant        %s\n", q.Amount.StringFixed(2)))
	return b.String()
}

// RenderTasks renders the generated task table.
func RenderTasks(tasks []*domain.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Sequence),
			t.Name,
			fmt.Sprintf("%.0f h", t.AllocatedHours),
			FormatDate(t.PlannedStartDate),
			FormatDate(t.PlannedEndDate),
		})
	}
	return RenderTable([]string{"Seq", "Tâche", "Heures", "Début", "Fin"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
