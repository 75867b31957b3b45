package migrations

import "gorm.io/gorm"

// migration003Up creates performance indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_polls_status ON polls(status)",
		"CREATE INDEX IF NOT EXISTS idx_polls_category ON polls(category)",
		"CREATE INDEX IF NOT EXISTS idx_polls_expiry_date ON polls(expiry_date)",
		"CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_poll_options_poll ON poll_options(poll_id, position)",

		"CREATE INDEX IF NOT EXISTS idx_poll_votes_poll ON poll_votes(poll_id)",
		"CREATE INDEX IF NOT EXISTS idx_poll_votes_voter ON poll_votes(voter_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_poll_votes_poll_voter ON poll_votes(poll_id, voter_id)",

		"CREATE INDEX IF NOT EXISTS idx_alerts_active ON alerts(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_announcements_active ON announcements(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_announcements_created_at ON announcements(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)",
		"CREATE INDEX IF NOT EXISTS idx_events_active ON events(is_active)",

		"CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status)",
		"CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops performance indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_users_role",
		"idx_users_created_at",
		"idx_polls_status",
		"idx_polls_category",
		"idx_polls_expiry_date",
		"idx_polls_created_at",
		"idx_poll_options_poll",
		"idx_poll_votes_poll",
		"idx_poll_votes_voter",
		"idx_poll_votes_poll_voter",
		"idx_alerts_active",
		"idx_alerts_created_at",
		"idx_announcements_active",
		"idx_announcements_created_at",
		"idx_events_date",
		"idx_events_active",
		"idx_complaints_status",
		"idx_complaints_created_at",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
