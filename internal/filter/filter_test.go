package filter

import (
	"testing"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sample() []models.EducationalCenter {
	return []models.EducationalCenter{
		{
			CenterCode: "14700651", NormalizedCode: "14700651",
			Locality: "Córdoba", Province: "Córdoba",
			CenterType: "Colegio de Educación Infantil y Primaria", SpecificName: "Santa María",
			Stages: map[string]string{"primaria": "Sí"},
		},
		{
			CenterCode: "C18001234", NormalizedCode: "18001234",
			Locality: "Granada", Province: "Granada",
			CenterType: "Instituto de Educación Secundaria", SpecificName: "Ángel Ganivet",
			Stages: map[string]string{"eso": "Sí", "bachillerato": "Sí"},
		},
		{
			CenterCode: "14002222", NormalizedCode: "14002222",
			Locality: "Lucena", Province: "CORDOBA",
			CenterType: "Instituto de Educación Secundaria", SpecificName: "Marqués de Comares",
			Stages: map[string]string{"eso": "No"},
		},
	}
}

func names(centers []models.EducationalCenter) []string {
	out := make([]string, len(centers))
	for i, c := range centers {
		out[i] = c.SpecificName
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	set, err := Build(Criteria{})
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.Equal(t, bson.M{}, set.BSON())
	assert.Len(t, set.Apply(sample()), 3)
	assert.True(t, Criteria{}.IsEmpty())
}

func TestBuild_ProvinceIgnoresAccents(t *testing.T) {
	set, err := Build(Criteria{Province: "Cordoba"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Santa María", "Marqués de Comares"}, names(set.Apply(sample())))

	m := set.BSON()
	re, ok := m[FieldProvince].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "^C[oóò]rd[oóò]b[aáà]$", re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestBuild_LocalityIsExact(t *testing.T) {
	set, err := Build(Criteria{Locality: "cordob"})
	require.NoError(t, err)
	assert.Empty(t, set.Apply(sample()))
}

func TestBuild_SpecificNameIsPartial(t *testing.T) {
	set, err := Build(Criteria{SpecificName: "angel"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ángel Ganivet"}, names(set.Apply(sample())))

	re := set.BSON()[FieldSpecificName].(primitive.Regex)
	assert.Equal(t, ".*[aáà]ng[eéè]l.*", re.Pattern)
}

func TestBuild_CodeIsNormalized(t *testing.T) {
	set, err := Build(Criteria{Code: "18001234C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ángel Ganivet"}, names(set.Apply(sample())))

	re := set.BSON()[FieldNormalizedCode].(primitive.Regex)
	assert.Equal(t, "^18001234$", re.Pattern)
}

func TestBuild_Stage(t *testing.T) {
	set, err := Build(Criteria{Stage: "E.S.O"})
	require.Error(t, err)
	assert.ErrorIs(t, err, normalizer.ErrInvalidInput)
	assert.Nil(t, set)

	set, err = Build(Criteria{Stage: "bachillerato"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"etapas.bachillerato": "Sí"}, set.BSON())
	assert.Equal(t, []string{"Ángel Ganivet"}, names(set.Apply(sample())))
}

func TestBuild_StageRequiresYes(t *testing.T) {
	set, err := Build(Criteria{Stage: "eso"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ángel Ganivet"}, names(set.Apply(sample())))
}

func TestBuild_StageRejectsOperators(t *testing.T) {
	_, err := Build(Criteria{Stage: "$where"})
	assert.ErrorIs(t, err, normalizer.ErrInvalidInput)
}

func TestBuild_CenterTypeIsLiteral(t *testing.T) {
	set, err := Build(Criteria{CenterType: "Instituto de Educación Secundaria"})
	require.NoError(t, err)
	assert.Equal(t, "Instituto de Educación Secundaria", set.BSON()[FieldCenterType])
	assert.Len(t, set.Apply(sample()), 2)

	set, err = Build(Criteria{CenterType: "instituto de educacion secundaria"})
	require.NoError(t, err)
	assert.Empty(t, set.Apply(sample()))
}

func TestBuild_Conjunction(t *testing.T) {
	set, err := Build(Criteria{
		Province:   "córdoba",
		CenterType: "Instituto de Educación Secundaria",
	})
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, []string{"Marqués de Comares"}, names(set.Apply(sample())))

	m := set.BSON()
	assert.Contains(t, m, FieldProvince)
	assert.Contains(t, m, FieldCenterType)
}

func TestBuild_IsPure(t *testing.T) {
	c := Criteria{Province: "Jaén", SpecificName: "x"}
	a, err := Build(c)
	require.NoError(t, err)
	b, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, a.BSON(), b.BSON())
	assert.Equal(t, Criteria{Province: "Jaén", SpecificName: "x"}, c)
}
