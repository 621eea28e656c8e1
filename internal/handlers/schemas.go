package handlers

import (
	v "gearshed/internal/validate"
)

const (
	// bcrypt rejects longer passwords.
	maxPasswordBytes = 72
	maxGearWeight    = 10_000_000
)

var (
	registerSchema = v.Schema{
		v.F("email", v.RequiredRule, v.EmailRule),
		v.F("password", v.RequiredRule, v.MinLengthOf(8), v.MaxBytesOf(maxPasswordBytes)),
	}

	loginSchema = v.Schema{
		v.F("email", v.RequiredRule, v.EmailRule),
		v.F("password", v.RequiredRule),
	}

	createCategorySchema = v.Schema{
		v.F("name", v.RequiredRule, v.MaxLengthOf(100)),
		v.F("activityType", v.RequiredRule, v.MaxLengthOf(50)),
	}

	updateCategorySchema = v.Schema{
		v.F("name", v.MaxLengthOf(100)),
		v.F("activityType", v.MaxLengthOf(50)),
	}

	createGearSchema = v.Schema{
		v.F("name", v.RequiredRule, v.MaxLengthOf(255)),
		v.F("weight", v.NumberRule, v.MinOf(0), v.MaxOf(maxGearWeight)),
		v.F("categoryId", v.NumberRule, v.MinOf(1)),
		v.F("notes", v.MaxLengthOf(2000)),
	}

	updateGearSchema = v.Schema{
		v.F("name", v.MaxLengthOf(255)),
		v.F("weight", v.NumberRule, v.MinOf(0), v.MaxOf(maxGearWeight)),
		v.F("categoryId", v.NumberRule, v.MinOf(1)),
		v.F("notes", v.MaxLengthOf(2000)),
	}

	createPackListSchema = v.Schema{
		v.F("name", v.RequiredRule, v.MaxLengthOf(255)),
		v.F("activityType", v.MaxLengthOf(50)),
		v.F("date", v.DateRule),
	}

	updatePackListSchema = v.Schema{
		v.F("name", v.MaxLengthOf(255)),
		v.F("activityType", v.MaxLengthOf(50)),
		v.F("date", v.DateRule),
	}

	addPackListItemSchema = v.Schema{
		v.F("gearItemId", v.RequiredRule, v.NumberRule, v.MinOf(1)),
	}
)
