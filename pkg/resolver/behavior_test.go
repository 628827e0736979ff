package resolver

import (
	"strings"
	"testing"

	"github.com/forattini-dev/s3db/pkg/events"
	"github.com/forattini-dev/s3db/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T, behavior schema.Behavior) *schema.RecordSchema {
	t.Helper()
	s, err := schema.New(schema.Config{
		Resource: "articles",
		Version:  1,
		Attributes: []schema.Definition{
			{Name: "title", Type: "string|required"},
			{Name: "summary", Type: "string"},
			{Name: "content", Type: "string"},
			{Name: "category", Type: "string"},
			{Name: "createdAt", Type: "ts"},
		},
		Partitions: []schema.PartitionDefinition{
			{Name: "byCategory", Fields: []string{"category"}},
		},
		Behavior: behavior,
	})
	require.NoError(t, err)
	return s
}

func smallRecord() map[string]string {
	return map[string]string{
		schema.VersionKey: "1",
		"id":              "rec-1",
		"title":           "short title",
		"category":        "news",
	}
}

func oversizedRecord() map[string]string {
	md := smallRecord()
	md["content"] = strings.Repeat("x", 3000)
	return md
}

func TestResolve_FitsInMetadata(t *testing.T) {
	// Behavior is irrelevant when everything fits.
	for _, b := range []schema.Behavior{
		schema.BehaviorUserManaged,
		schema.BehaviorEnforceLimits,
		schema.BehaviorTruncateData,
		schema.BehaviorBodyOverflow,
	} {
		plan, err := Resolve(Input{
			Schema:    testSchema(t, b),
			RecordID:  "rec-1",
			Operation: "insert",
			Metadata:  smallRecord(),
		}, DefaultLimits(), nil)
		require.NoError(t, err, "behavior %s", b)
		assert.Equal(t, FitsInMetadata, plan.State)
		assert.Nil(t, plan.Body)
		assert.Equal(t, smallRecord(), plan.Metadata)
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	md := oversizedRecord()
	original := len(md["content"])

	_, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorTruncateData),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, DefaultLimits(), nil)
	require.NoError(t, err)
	assert.Len(t, md["content"], original)
}

func TestResolve_UserManaged_NotifiesAndWritesAnyway(t *testing.T) {
	rec := &events.Recorder{}
	md := oversizedRecord()

	plan, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorUserManaged),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, DefaultLimits(), rec)
	require.NoError(t, err)

	assert.Equal(t, FitsInMetadata, plan.State)
	assert.Equal(t, md, plan.Metadata, "no data may be dropped")

	require.Len(t, rec.ExceedsLimits, 1)
	e := rec.ExceedsLimits[0]
	assert.Equal(t, "insert", e.Operation)
	assert.Equal(t, "rec-1", e.RecordID)
	assert.Equal(t, DefaultMetadataLimit, e.Limit)
	assert.Equal(t, MetadataSize(md, DefaultLimits()), e.TotalSize)
	assert.Equal(t, e.TotalSize-e.Limit, e.Excess)
}

func TestResolve_EnforceLimits_Rejects(t *testing.T) {
	// A 3000-byte string under enforce-limits must never be written.
	plan, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorEnforceLimits),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  oversizedRecord(),
	}, DefaultLimits(), nil)

	var exceeded *MetadataExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Nil(t, plan)
	assert.Greater(t, exceeded.Excess, 0)
	assert.Equal(t, DefaultMetadataLimit, exceeded.Limit)
	assert.Equal(t, exceeded.TotalSize-exceeded.Limit, exceeded.Excess)
}

func TestResolve_Truncate_ShrinksLongestFirst(t *testing.T) {
	rec := &events.Recorder{}
	md := smallRecord()
	md["content"] = strings.Repeat("c", 2500)
	md["summary"] = strings.Repeat("s", 400)

	limits := DefaultLimits()
	plan, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorTruncateData),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, limits, rec)
	require.NoError(t, err)

	assert.Equal(t, Truncated, plan.State)
	assert.LessOrEqual(t, MetadataSize(plan.Metadata, limits), limits.limit())
	assert.True(t, strings.HasSuffix(plan.Metadata["content"], "..."))

	// The shorter field was never touched: the excess fit inside content.
	assert.Equal(t, md["summary"], plan.Metadata["summary"])

	// Required and partition fields are untouched by construction.
	assert.Equal(t, md["title"], plan.Metadata["title"])
	assert.Equal(t, md["category"], plan.Metadata["category"])
	assert.Equal(t, md["id"], plan.Metadata["id"])

	require.Len(t, rec.Truncates, 1)
	e := rec.Truncates[0]
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "content", e.Fields[0].Name)
	assert.Equal(t, 2500, e.Fields[0].Before)
	assert.Equal(t, len(plan.Metadata["content"]), e.Fields[0].After)
	assert.Greater(t, e.TotalBefore, e.TotalAfter)
	assert.LessOrEqual(t, e.TotalAfter, limits.limit())
}

func TestResolve_Truncate_ExhaustedRaises(t *testing.T) {
	// Only untruncatable fields carry the excess: title is required.
	md := map[string]string{
		schema.VersionKey: "1",
		"id":              "rec-1",
		"title":           strings.Repeat("t", 3000),
		"category":        "news",
	}

	_, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorTruncateData),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, DefaultLimits(), nil)

	var exceeded *MetadataExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Greater(t, exceeded.Excess, 0)
}

func TestResolve_Truncate_MovesOnWhenLongestExhausts(t *testing.T) {
	rec := &events.Recorder{}
	md := smallRecord()
	md["content"] = strings.Repeat("c", 80)
	md["summary"] = strings.Repeat("s", 80)

	// A tight limit the longest field alone cannot satisfy.
	limits := Limits{MetadataLimit: 100}
	plan, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorTruncateData),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, limits, rec)
	require.NoError(t, err)

	assert.LessOrEqual(t, MetadataSize(plan.Metadata, limits), limits.limit())
	assert.True(t, strings.HasSuffix(plan.Metadata["content"], "..."))
	assert.True(t, strings.HasSuffix(plan.Metadata["summary"], "..."))

	require.Len(t, rec.Truncates, 1)
	assert.Len(t, rec.Truncates[0].Fields, 2)
}

func TestResolve_BodyOverflow_RoundTrip(t *testing.T) {
	rec := &events.Recorder{}
	s := testSchema(t, schema.BehaviorBodyOverflow)
	md := oversizedRecord()
	md["createdAt"] = "SoGHUDPG" // encoded timestamp stays in metadata

	limits := DefaultLimits()
	plan, err := Resolve(Input{
		Schema:    s,
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, limits, rec)
	require.NoError(t, err)

	assert.Equal(t, Overflowed, plan.State)
	assert.LessOrEqual(t, MetadataSize(plan.Metadata, limits), limits.limit())
	assert.NotEmpty(t, plan.Body)

	// Mandatory core stays metadata-resident.
	assert.Contains(t, plan.Metadata, "id")
	assert.Contains(t, plan.Metadata, schema.VersionKey)
	assert.Contains(t, plan.Metadata, "category")
	assert.Contains(t, plan.Metadata, "createdAt")
	assert.NotContains(t, plan.Metadata, "content")

	require.Len(t, rec.Overflows, 1)
	e := rec.Overflows[0]
	assert.Equal(t, MetadataSize(plan.Metadata, limits), e.MetadataSize)
	assert.Equal(t, len(plan.Body), e.BodySize)

	// Decoding the plan reconstructs the full logical record.
	record, err := DecodeRecord(s, plan.Metadata, plan.Body)
	require.NoError(t, err)
	assert.Equal(t, md["content"], record["content"])
	assert.Equal(t, "short title", record["title"])
	assert.Equal(t, "rec-1", record["id"])
}

func TestResolve_BodyOverflow_CoreTooLargeRaises(t *testing.T) {
	md := smallRecord()
	md["category"] = strings.Repeat("p", 3000) // partition field: not movable

	_, err := Resolve(Input{
		Schema:    testSchema(t, schema.BehaviorBodyOverflow),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, DefaultLimits(), nil)

	var exceeded *MetadataExceededError
	assert.ErrorAs(t, err, &exceeded)
}

func TestResolve_BodyOnly(t *testing.T) {
	s := testSchema(t, schema.BehaviorBodyOnly)
	md := smallRecord()

	plan, err := Resolve(Input{
		Schema:    s,
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  md,
	}, DefaultLimits(), nil)
	require.NoError(t, err)

	assert.Equal(t, BodyOnly, plan.State)
	assert.Equal(t, map[string]string{schema.VersionKey: "1"}, plan.Metadata)
	assert.NotEmpty(t, plan.Body)

	record, err := DecodeRecord(s, plan.Metadata, plan.Body)
	require.NoError(t, err)
	assert.Equal(t, "short title", record["title"])
	assert.Equal(t, "news", record["category"])
	assert.Equal(t, "rec-1", record["id"])
}

func TestResolve_IsDeterministic(t *testing.T) {
	in := Input{
		Schema:    testSchema(t, schema.BehaviorBodyOverflow),
		RecordID:  "rec-1",
		Operation: "insert",
		Metadata:  oversizedRecord(),
	}

	first, err := Resolve(in, DefaultLimits(), nil)
	require.NoError(t, err)
	second, err := Resolve(in, DefaultLimits(), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeRecord_AbsentVersusEmpty(t *testing.T) {
	s := testSchema(t, schema.BehaviorUserManaged)

	record, err := DecodeRecord(s, map[string]string{
		schema.VersionKey: "1",
		"id":              "rec-1",
		"summary":         "",
	}, nil)
	require.NoError(t, err)

	v, present := record["summary"]
	assert.True(t, present, "empty string field must survive the round trip")
	assert.Equal(t, "", v)

	_, present = record["content"]
	assert.False(t, present, "absent field must stay absent")
}

func TestPerFieldOverheadCountsPerField(t *testing.T) {
	md := map[string]string{"a": "1", "bb": "22"}

	plain := MetadataSize(md, Limits{MetadataLimit: 100})
	framed := MetadataSize(md, Limits{MetadataLimit: 100, PerFieldOverhead: 4})
	assert.Equal(t, plain+2*4, framed)
}
