package postgres

import (
	"fmt"

	"careplan/internal/adapters/out/postgres/jobrepo"
	"careplan/internal/adapters/out/postgres/patientrepo"
	"careplan/internal/adapters/out/postgres/submissionrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables and installs the constraints and
// indexes that AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&patientrepo.PatientDTO{},
		&submissionrepo.SubmissionDTO{},
		&jobrepo.JobDTO{},
	); err != nil {
		return err
	}

	stmts := []string{
		// Deleting a patient removes its submission.
		`do $$
begin
	if not exists (select 1 from pg_constraint where conname = 'fk_submissions_patient') then
		alter table submissions
			add constraint fk_submissions_patient
			foreign key (patient_uuid) references patients(id) on delete cascade;
	end if;
end $$;`,
		// FetchDue scans pending jobs in (scheduled_for, id) order.
		`create index if not exists idx_scheduled_jobs_due on scheduled_jobs(scheduled_for, id) where status = 'pending';`,
		`create index if not exists idx_scheduled_jobs_patient_status on scheduled_jobs(patient_uuid, status);`,
		`create index if not exists idx_patients_created on patients(created_at desc);`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("migration exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
