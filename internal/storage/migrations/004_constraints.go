package migrations

import "gorm.io/gorm"

// migration004Up creates integrity constraints and the vote consistency trigger
func migration004Up(db *gorm.DB) error {
	constraints := []string{
		`ALTER TABLE poll_options
         ADD CONSTRAINT chk_poll_options_votes_non_negative CHECK (votes >= 0)`,

		`ALTER TABLE polls
         ADD CONSTRAINT chk_polls_total_votes_non_negative CHECK (total_votes >= 0)`,

		`ALTER TABLE announcements
         ADD CONSTRAINT chk_announcements_priority_range CHECK (priority BETWEEN 1 AND 3)`,

		`ALTER TABLE events
         ADD CONSTRAINT chk_events_max_participants_non_negative CHECK (max_participants >= 0)`,

		`ALTER TABLE poll_votes
         ADD CONSTRAINT fk_poll_votes_option
         FOREIGN KEY (option_id) REFERENCES poll_options(id) ON DELETE CASCADE`,
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	// Keeps a vote's option pinned to its poll at the database level.
	triggerSQL := `
        CREATE OR REPLACE FUNCTION validate_poll_vote()
        RETURNS TRIGGER AS $$
        DECLARE
            option_poll_id UUID;
        BEGIN
            SELECT poll_id INTO option_poll_id
            FROM poll_options
            WHERE id = NEW.option_id;

            IF NOT FOUND THEN
                RAISE EXCEPTION 'option % does not exist', NEW.option_id;
            END IF;

            IF option_poll_id != NEW.poll_id THEN
                RAISE EXCEPTION 'option % does not belong to poll %', NEW.option_id, NEW.poll_id;
            END IF;

            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`

	if err := db.Exec(triggerSQL).Error; err != nil {
		return err
	}

	return db.Exec(`
        CREATE TRIGGER trg_validate_poll_vote
        BEFORE INSERT ON poll_votes
        FOR EACH ROW
        EXECUTE FUNCTION validate_poll_vote()
    `).Error
}

// migration004Down drops constraints and the vote consistency trigger
func migration004Down(db *gorm.DB) error {
	statements := []string{
		"DROP TRIGGER IF EXISTS trg_validate_poll_vote ON poll_votes",
		"DROP FUNCTION IF EXISTS validate_poll_vote()",
		"ALTER TABLE poll_votes DROP CONSTRAINT IF EXISTS fk_poll_votes_option",
		"ALTER TABLE events DROP CONSTRAINT IF EXISTS chk_events_max_participants_non_negative",
		"ALTER TABLE announcements DROP CONSTRAINT IF EXISTS chk_announcements_priority_range",
		"ALTER TABLE polls DROP CONSTRAINT IF EXISTS chk_polls_total_votes_non_negative",
		"ALTER TABLE poll_options DROP CONSTRAINT IF EXISTS chk_poll_options_votes_non_negative",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
