package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) Object {
	t.Helper()
	objects, diags := ParseSource(src, "test.al")
	require.Empty(t, diags, "unexpected diagnostics: %+v", diags)
	require.Len(t, objects, 1)
	return objects[0]
}

func TestParseObjectPropertiesAndSections(t *testing.T) {
	src := `table 50100 "Customer Loyalty"
{
    Caption = 'Customer Loyalty';
    DataClassification = CustomerContent;

    fields
    {
        field(1; "Entry No."; Integer) { }
    }

    keys
    {
        key(PK; "Entry No.") { Clustered = true; }
    }
}`
	obj := parseOne(t, src)

	require.Len(t, obj.Properties, 2)
	assert.Equal(t, "Caption", obj.Properties[0].Name)
	assert.Equal(t, "'Customer Loyalty'", obj.Properties[0].Value)
	assert.Equal(t, "DataClassification", obj.Properties[1].Name)

	require.Len(t, obj.Sections, 2)
	assert.Equal(t, "fields", obj.Sections[0].Name)
	assert.Equal(t, "keys", obj.Sections[1].Name)
}

func TestParseProcedureWithBeginEnd(t *testing.T) {
	src := `codeunit 50100 "Address Management"
{
    local procedure ValidateCity(City: Text): Boolean
    begin
        if City = '' then
            exit(false);
        exit(true);
    end;
}`
	obj := parseOne(t, src)
	require.Len(t, obj.Procedures, 1)
	proc := obj.Procedures[0]
	assert.Equal(t, "ValidateCity", proc.Name)
	assert.Equal(t, AccessLocal, proc.Access)
	assert.Equal(t, "Boolean", proc.ReturnType)
	assert.Contains(t, proc.BodyText, "exit(true)")
}

func TestParseProcedureWithCaseOf(t *testing.T) {
	src := `codeunit 50101 "Case Demo"
{
    procedure Classify(X: Integer): Text
    begin
        case X of
            1:
                exit('one');
            2:
                exit('two');
            else
                exit('other');
        end;
    end;
}`
	obj := parseOne(t, src)
	require.Len(t, obj.Procedures, 1)
	assert.Contains(t, obj.Procedures[0].BodyText, "exit('other')")
}

func TestParseProcedureWithRepeatUntil(t *testing.T) {
	src := `codeunit 50102 "Repeat Demo"
{
    procedure CountUp()
    var
        i: Integer;
    begin
        i := 0;
        repeat
            i += 1;
        until i >= 10;
    end;
}`
	obj := parseOne(t, src)
	require.Len(t, obj.Procedures, 1)
	assert.Contains(t, obj.Procedures[0].BodyText, "until i >= 10")
}

func TestParseTriggerAndAttributedProcedure(t *testing.T) {
	src := `codeunit 50103 "Address Management"
{
    trigger OnRun()
    begin
    end;

    [EventSubscriber(ObjectType::Table, Database::Customer, 'OnAfterInsertEvent', '', false, false)]
    local procedure OnAfterInsertCustomer(var Rec: Record Customer)
    begin
    end;
}`
	obj := parseOne(t, src)
	require.Len(t, obj.Procedures, 2)

	trig := obj.Procedures[0]
	assert.Equal(t, ProcedureKindTrigger, trig.Kind)
	assert.Equal(t, "OnRun", trig.Name)
	assert.Equal(t, AccessPublic, trig.Access)

	proc := obj.Procedures[1]
	assert.Equal(t, "OnAfterInsertCustomer", proc.Name)
	assert.Equal(t, AccessLocal, proc.Access)
	require.Len(t, proc.Attributes, 1)
	assert.True(t, len(proc.Attributes[0]) > 0 && proc.Attributes[0][0] == '[')
	assert.Contains(t, proc.Attributes[0], "EventSubscriber(")
}

func TestParseInterfaceProceduresHaveEmptyBody(t *testing.T) {
	src := `interface "IAddress Provider"
{
    procedure GetStreet(): Text;
    procedure GetCity(): Text;
    procedure GetPostCode(): Text;
}`
	obj := parseOne(t, src)
	assert.Equal(t, KindInterface, obj.Kind)
	assert.Equal(t, 0, obj.ID)
	require.Len(t, obj.Procedures, 3)
	for _, p := range obj.Procedures {
		assert.Empty(t, p.BodyText)
	}
}

func TestParseMultipleObjectsInOneFile(t *testing.T) {
	src := `enum 50100 "Loyalty Tier"
{
    Extensible = true;
    value(0; Bronze) { }
}

codeunit 50100 "Loyalty Engine"
{
    procedure Noop()
    begin
    end;
}`
	objects, diags := ParseSource(src, "multi.al")
	require.Empty(t, diags)
	require.Len(t, objects, 2)
	assert.Equal(t, KindEnum, objects[0].Kind)
	assert.Equal(t, KindCodeunit, objects[1].Kind)
	assert.Greater(t, objects[1].LineStart, objects[0].LineEnd)
	assert.Equal(t, objects[0].FileHash, objects[1].FileHash)
}

func TestParseRecoversPastMalformedObject(t *testing.T) {
	src := `table 1 "Broken"

codeunit 50100 "Still Works"
{
    procedure Noop()
    begin
    end;
}`
	objects, diags := ParseSource(src, "broken.al")
	require.NotEmpty(t, diags)
	require.Len(t, objects, 1)
	assert.Equal(t, "Still Works", objects[0].Name)
}

func TestLexicalNeutralityInsideStringsAndComments(t *testing.T) {
	src := `table 50100 "Neutrality"
{
    Caption = '{{{{';
    // }
    /* { */
    DataClassification = CustomerContent; // trailing
    "{" = 1;
}`
	obj := parseOne(t, src)
	require.Len(t, obj.Properties, 3)
	assert.Equal(t, "Caption", obj.Properties[0].Name)
	assert.Equal(t, "'{{{{'", obj.Properties[0].Value)
	assert.Equal(t, "{", obj.Properties[2].Name)
}
