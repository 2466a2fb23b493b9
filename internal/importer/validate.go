package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/domain"
)

var (
	validProjectTypes = map[string]bool{"estimate": true, "implementation": true}
	validCategories   = map[string]bool{"integration": true, "evolution": true}
	validEstimateCats = map[string]bool{"billable": true, "non_billable": true}
	validLineTypes    = map[string]bool{"internal": true, "external": true}
)

// ValidateImportSchema checks the import schema before conversion and
// returns every error found, not just the first.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	deptCodes := make(map[string]bool)
	errs = append(errs, validateProjectImport(&schema.Project, deptCodes)...)
	errs = append(errs, validateDepartments(schema.Departments)...)
	errs = append(errs, validateCatalog(schema.Catalog)...)
	errs = append(errs, validateLines(schema.Lines, &schema.Project, deptCodes)...)
	errs = append(errs, validateProfiles(schema.Profiles)...)
	errs = append(errs, validateLots(schema.Lots, deptCodes)...)

	return errs
}

func validateProjectImport(p *ProjectImport, deptCodes map[string]bool) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.Type == "" {
		errs = append(errs, fmt.Errorf("project.type is required"))
	} else if !validProjectTypes[p.Type] {
		errs = append(errs, fmt.Errorf("project.type: invalid value %q", p.Type))
	}
	switch p.Type {
	case "implementation":
		if p.Category == "" {
			errs = append(errs, fmt.Errorf("project.category is required for implementation projects"))
		} else if !validCategories[p.Category] {
			errs = append(errs, fmt.Errorf("project.category: invalid value %q", p.Category))
		}
	case "estimate":
		if p.EstimateCategory == "" {
			errs = append(errs, fmt.Errorf("project.estimate_category is required for estimate projects"))
		} else if !validEstimateCats[p.EstimateCategory] {
			errs = append(errs, fmt.Errorf("project.estimate_category: invalid value %q", p.EstimateCategory))
		}
	}

	errs = append(errs, validateOptionalDate("project.start_date", p.StartDate)...)
	errs = append(errs, validateOptionalDate("project.end_date", p.EndDate)...)
	if p.StartDate != nil && p.EndDate != nil {
		start, startErr := time.Parse("2006-01-02", *p.StartDate)
		end, endErr := time.Parse("2006-01-02", *p.EndDate)
		if startErr == nil && endErr == nil && end.Before(start) {
			errs = append(errs, fmt.Errorf("project.end_date %q must not precede start_date %q", *p.EndDate, *p.StartDate))
		}
	}

	isEvolution := p.Type == "implementation" && p.Category == "evolution"
	if len(p.Departments) == 0 && !isEvolution {
		errs = append(errs, fmt.Errorf("project.departments must name at least one department"))
	}
	for i, code := range p.Departments {
		if code == "" {
			errs = append(errs, fmt.Errorf("project.departments[%d] is empty", i))
			continue
		}
		if deptCodes[code] {
			errs = append(errs, fmt.Errorf("project.departments[%d]: duplicate code %q", i, code))
		}
		deptCodes[code] = true
	}

	return errs
}

func validateDepartments(departments []DepartmentImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, d := range departments {
		prefix := fmt.Sprintf("departments[%d]", i)
		if d.Code == "" {
			errs = append(errs, fmt.Errorf("%s.code is required", prefix))
		} else if seen[d.Code] {
			errs = append(errs, fmt.Errorf("%s.code: duplicate code %q", prefix, d.Code))
		} else {
			seen[d.Code] = true
		}
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}
	return errs
}

func validateCatalog(catalog []RequirementImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, r := range catalog {
		prefix := fmt.Sprintf("catalog[%d]", i)
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if r.Department == "" {
			errs = append(errs, fmt.Errorf("%s.department is required", prefix))
		}
		key := r.Department + "/" + r.Name
		if r.Name != "" && r.Department != "" {
			if seen[key] {
				errs = append(errs, fmt.Errorf("%s: duplicate requirement %q in department %q", prefix, r.Name, r.Department))
			}
			seen[key] = true
		}
		if r.Type != "" && !validLineTypes[r.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, r.Type))
		}
		errs = append(errs, validateSubrequirements(prefix, r.Subrequirements)...)
	}
	return errs
}

func validateLines(lines []LineImport, p *ProjectImport, deptCodes map[string]bool) []error {
	var errs []error
	isEvolution := p.Type == "implementation" && p.Category == "evolution"

	for i, l := range lines {
		prefix := fmt.Sprintf("lines[%d]", i)
		switch {
		case l.Requirement == "" && l.Name == "":
			errs = append(errs, fmt.Errorf("%s: either requirement or name is required", prefix))
		case l.Requirement != "" && l.Name != "":
			errs = append(errs, fmt.Errorf("%s: requirement and name are mutually exclusive", prefix))
		case l.Requirement != "" && isEvolution:
			errs = append(errs, fmt.Errorf("%s: evolution projects only accept free-form lines", prefix))
		case l.Name != "" && !isEvolution:
			errs = append(errs, fmt.Errorf("%s: free-form lines are reserved to evolution projects", prefix))
		}
		if l.Requirement != "" {
			if l.Department == "" {
				errs = append(errs, fmt.Errorf("%s.department is required for catalog lines", prefix))
			} else if !deptCodes[l.Department] {
				errs = append(errs, fmt.Errorf("%s.department: code %q is not one of the project departments", prefix, l.Department))
			}
		}
		if l.Order < 0 {
			errs = append(errs, fmt.Errorf("%s.order must not be negative", prefix))
		}
		errs = append(errs, validateSubrequirements(prefix, l.Subrequirements)...)
	}
	return errs
}

func validateSubrequirements(prefix string, subs []SubrequirementImport) []error {
	var errs []error
	for i, s := range subs {
		p := fmt.Sprintf("%s.subrequirements[%d]", prefix, i)
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", p))
		}
		if s.WorkloadDays < 0 {
			errs = append(errs, fmt.Errorf("%s.workload_days must not be negative", p))
		}
	}
	return errs
}

func validateProfiles(profiles []ProfileImport) []error {
	var errs []error
	for i, p := range profiles {
		prefix := fmt.Sprintf("profiles[%d]", i)
		if p.Role == "" {
			errs = append(errs, fmt.Errorf("%s.role is required", prefix))
		}
		if p.Involvement != "" && !domain.ValidInvolvements[p.Involvement] {
			errs = append(errs, fmt.Errorf("%s.involvement: invalid value %q", prefix, p.Involvement))
		}
		if p.WorkloadDays < 0 {
			errs = append(errs, fmt.Errorf("%s.workload_days must not be negative", prefix))
		}
	}
	return errs
}

func validateLots(lots []LotImport, deptCodes map[string]bool) []error {
	var errs []error
	assigned := make(map[string]int)
	for i, l := range lots {
		prefix := fmt.Sprintf("lots[%d]", i)
		if len(l.Departments) == 0 {
			errs = append(errs, fmt.Errorf("%s.departments must name at least one department", prefix))
		}
		for _, code := range l.Departments {
			if !deptCodes[code] {
				errs = append(errs, fmt.Errorf("%s: department %q is not one of the project departments", prefix, code))
				continue
			}
			if prev, ok := assigned[code]; ok {
				errs = append(errs, fmt.Errorf("%s: department %q already assigned to lots[%d]", prefix, code, prev))
			} else {
				assigned[code] = i
			}
		}
		errs = append(errs, validateOptionalDate(prefix+".delivery_date", l.DeliveryDate)...)
		errs = append(errs, validateOptionalDate(prefix+".mep_date", l.MEPDate)...)
	}
	return errs
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil || *dateStr == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *dateStr); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return nil
}
