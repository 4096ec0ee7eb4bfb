package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessFirstChapterAlwaysOpen(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "alice")
	course := createTestCourse(t, db, "Intro Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)

	access, err := CheckChapterAccess(db, user.ID, ch1)
	require.NoError(t, err)
	assert.True(t, access.CanAccess)
	assert.Nil(t, access.RequiredChapter)
}

func TestAccessFreeChapterSkipsGate(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "bob")
	course := createTestCourse(t, db, "Freemium Course")
	createTestChapter(t, db, course.ID, 1, false)
	freeChapter := createTestChapter(t, db, course.ID, 2, true)

	// Chapter 1 never touched, but chapter 2 is free
	access, err := CheckChapterAccess(db, user.ID, freeChapter)
	require.NoError(t, err)
	assert.True(t, access.CanAccess)
}

func TestAccessBlockedWithoutPreviousChapter(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "carol")
	course := createTestCourse(t, db, "Strict Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)

	access, err := CheckChapterAccess(db, user.ID, ch2)
	require.NoError(t, err)
	assert.False(t, access.CanAccess)
	require.NotNil(t, access.RequiredChapter)
	assert.Equal(t, ch1.ID, *access.RequiredChapter)
}

func TestAccessBlockedOnIncompletePrevious(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "dave")
	course := createTestCourse(t, db, "Strict Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)

	// Progress exists on chapter 1 but below the floor
	completeChapter(t, db, user.ID, ch1.ID, 50)

	access, err := CheckChapterAccess(db, user.ID, ch2)
	require.NoError(t, err)
	assert.False(t, access.CanAccess)
	require.NotNil(t, access.RequiredChapter)
	assert.Equal(t, ch1.ID, *access.RequiredChapter)
}

func TestAccessOpensAfterPreviousCompleted(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "erin")
	course := createTestCourse(t, db, "Strict Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)

	completeChapter(t, db, user.ID, ch1.ID, 80)

	access, err := CheckChapterAccess(db, user.ID, ch2)
	require.NoError(t, err)
	assert.True(t, access.CanAccess)
	assert.Nil(t, access.RequiredChapter)
}

func TestAccessCompletedChapterStaysOpen(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "frank")
	course := createTestCourse(t, db, "Revisit Course")
	createTestChapter(t, db, course.ID, 1, false)
	ch2 := createTestChapter(t, db, course.ID, 2, false)
	ch3 := createTestChapter(t, db, course.ID, 3, false)

	// Chapter 3 was completed while its predecessor is not; revisiting it
	// must still be allowed
	completeChapter(t, db, user.ID, ch3.ID, 100)

	access, err := CheckChapterAccess(db, user.ID, ch3)
	require.NoError(t, err)
	assert.True(t, access.CanAccess)

	// Chapter 2 itself is still gated
	access, err = CheckChapterAccess(db, user.ID, ch2)
	require.NoError(t, err)
	assert.False(t, access.CanAccess)
}

func TestAccessGateFollowsSequenceNotPositionMath(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "grace")
	course := createTestCourse(t, db, "Gappy Course")
	ch1 := createTestChapter(t, db, course.ID, 1, false)
	ch5 := createTestChapter(t, db, course.ID, 5, false)

	// Position 4 does not exist; the gate must look at position 1
	access, err := CheckChapterAccess(db, user.ID, ch5)
	require.NoError(t, err)
	assert.False(t, access.CanAccess)
	require.NotNil(t, access.RequiredChapter)
	assert.Equal(t, ch1.ID, *access.RequiredChapter)

	completeChapter(t, db, user.ID, ch1.ID, 70)

	access, err = CheckChapterAccess(db, user.ID, ch5)
	require.NoError(t, err)
	assert.True(t, access.CanAccess)
}

func TestAccessFailsOpenWithoutPredecessor(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "henry")
	course := createTestCourse(t, db, "Lonely Course")

	// A single chapter that sits at a position other than 1
	lone := createTestChapter(t, db, course.ID, 4, false)

	access, err := CheckChapterAccess(db, user.ID, lone)
	require.NoError(t, err)
	assert.True(t, access.CanAccess)
}
