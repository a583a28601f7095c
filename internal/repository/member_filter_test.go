package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemberFilterWhereClause(t *testing.T) {
	minDOB := time.Date(1988, 6, 15, 0, 0, 0, 0, time.UTC)
	maxDOB := time.Date(1994, 6, 15, 0, 0, 0, 0, time.UTC)

	f := MemberFilter{
		ExcludeUsername: "lisa",
		Gender:          "male",
		MinDateOfBirth:  minDOB,
		MaxDateOfBirth:  maxDOB,
	}

	clause, args := f.whereClause()

	assert.Contains(t, clause, "m.username <> $1")
	assert.Contains(t, clause, "m.gender = $2")
	assert.Contains(t, clause, "m.date_of_birth BETWEEN $3 AND $4")
	assert.Equal(t, []any{"lisa", "male", minDOB, maxDOB}, args)
}

func TestMemberFilterOrderClause(t *testing.T) {
	tests := []struct {
		orderBy string
		want    string
	}{
		{"created", "ORDER BY m.created_at DESC"},
		{"lastActive", "ORDER BY m.last_active DESC"},
		{"", "ORDER BY m.last_active DESC"},
		{"garbage", "ORDER BY m.last_active DESC"},
	}

	for _, tt := range tests {
		f := MemberFilter{OrderBy: tt.orderBy}
		assert.Equal(t, tt.want, f.orderClause(), "orderBy=%q", tt.orderBy)
	}
}

func TestMessageFilterWhereClause(t *testing.T) {
	inbox := MessageFilter{MemberID: "m1"}
	assert.Equal(t, `WHERE msg.recipient_id = $1 AND NOT msg.recipient_deleted`, inbox.whereClause())

	outbox := MessageFilter{MemberID: "m1", Container: "outbox"}
	assert.Equal(t, `WHERE msg.sender_id = $1 AND NOT msg.sender_deleted`, outbox.whereClause())
}
